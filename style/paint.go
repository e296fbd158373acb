package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Paint is a solid color used to fill glyphs and to stroke lines.
type Paint struct {
	Name  string // color name, if the paint has been created from a name
	Color color.RGBA
}

// Black is the default paint.
var Black = Paint{Name: "black", Color: color.RGBA{0, 0, 0, 0xff}}

// PaintNamed returns the paint for an SVG/CSS color name, e.g. "aqua".
func PaintNamed(name string) (Paint, bool) {
	name = strings.ToLower(name)
	c, ok := colornames.Map[name]
	if !ok {
		return Paint{}, false
	}
	return Paint{Name: name, Color: c}, true
}

// PaintHex parses a paint from a hex notation "#rgb" or "#rrggbb".
func PaintHex(hex string) (Paint, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Paint{}, fmt.Errorf("%w: invalid color %q", ErrSyntax, hex)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Paint{}, fmt.Errorf("%w: invalid color %q", ErrSyntax, hex)
	}
	return Paint{Color: color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xff}}, nil
}

func (p Paint) Kind() Kind { return KindPaint }

func (p Paint) String() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%02x%02x%02x", p.Color.R, p.Color.G, p.Color.B)
}
