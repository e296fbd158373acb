package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fold"
	"github.com/npillmayer/fold/maybe"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseValue parses a literal in declaration syntax as a value of kind k.
// Examples:
//
//	length        4pt, 0
//	paint         aqua, #336699
//	stroke        4pt aqua round (cap), round-join
//	features      liga 0, smcp
//	decorations   underline 4pt aqua, overline
//
// An empty literal yields the neutral value of the kind.
func ParseValue(k Kind, literal string) (Value, error) {
	return valueFromTokens(k, lex(literal))
}

// lex splits a literal into CSS tokens, dropping whitespace and comments.
func lex(literal string) []css.Token {
	l := css.NewLexer(parse.NewInputString(literal))
	var tokens []css.Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return tokens
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		tokens = append(tokens, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
	}
}

func significant(tokens []css.Token) []css.Token {
	r := tokens[:0:0]
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken && t.TokenType != css.CommentToken {
			r = append(r, t)
		}
	}
	return r
}

func valueFromTokens(k Kind, tokens []css.Token) (Value, error) {
	if len(tokens) == 0 {
		if v := zeroValue(k); v != nil {
			return v, nil
		}
		return nil, fmt.Errorf("%w: no literal for kind %s", ErrSyntax, k)
	}
	switch k {
	case KindStroke:
		return parseStroke(tokens)
	case KindFeatures:
		return parseFeatures(tokens)
	case KindDecorations:
		return parseDecorations(tokens)
	}
	if len(tokens) != 1 {
		return nil, syntaxError(k, tokens)
	}
	t := tokens[0]
	switch k {
	case KindInt:
		if t.TokenType == css.NumberToken {
			if n, err := strconv.ParseInt(string(t.Data), 10, 64); err == nil {
				return Int(n), nil
			}
		}
	case KindFloat:
		if t.TokenType == css.NumberToken {
			if x, err := strconv.ParseFloat(string(t.Data), 64); err == nil {
				return Float(x), nil
			}
		}
	case KindLength:
		if l, ok := parseLength(t); ok {
			return l, nil
		}
	case KindBool:
		if t.TokenType == css.IdentToken {
			if b, err := strconv.ParseBool(string(t.Data)); err == nil {
				return Bool(b), nil
			}
		}
	case KindString:
		switch t.TokenType {
		case css.IdentToken:
			return String(t.Data), nil
		case css.StringToken:
			return String(unquote(t.Data)), nil
		}
	case KindPaint:
		if p, ok := parsePaint(t); ok {
			return p, nil
		}
	}
	return nil, syntaxError(k, tokens)
}

// units maps unit names to their size in printer's points.
var units = map[string]float64{
	"pt": 1,
	"bp": 72.27 / 72,
	"mm": 72.27 / 25.4,
	"cm": 72.27 / 2.54,
	"in": 72.27,
}

func parseLength(t css.Token) (Length, bool) {
	switch t.TokenType {
	case css.NumberToken:
		if x, err := strconv.ParseFloat(string(t.Data), 64); err == nil && x == 0 {
			return 0, true
		}
	case css.DimensionToken:
		s := string(t.Data)
		i := strings.LastIndexAny(s, "0123456789.") + 1
		unit, ok := units[strings.ToLower(s[i:])]
		if !ok {
			return 0, false
		}
		x, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, false
		}
		return Pt(x * unit), true
	}
	return 0, false
}

func parsePaint(t css.Token) (Paint, bool) {
	switch t.TokenType {
	case css.IdentToken:
		return PaintNamed(string(t.Data))
	case css.HashToken:
		p, err := PaintHex(string(t.Data))
		return p, err == nil
	}
	return Paint{}, false
}

var dashPatterns = map[string]Dash{
	"solid":  {},
	"dotted": {Array: []Length{0, Pt(2)}},
	"dashed": {Array: []Length{Pt(3), Pt(3)}},
}

func parseStroke(tokens []css.Token) (Value, error) {
	var s Stroke
	for _, t := range tokens {
		if l, ok := parseLength(t); ok {
			s.Thickness = maybe.Just(l)
			continue
		}
		if t.TokenType == css.IdentToken {
			name := strings.ToLower(string(t.Data))
			switch name {
			case "butt":
				s.Cap = maybe.Just(CapButt)
				continue
			case "round", "round-cap":
				s.Cap = maybe.Just(CapRound)
				continue
			case "round-join":
				s.Join = maybe.Just(JoinRound)
				continue
			case "square":
				s.Cap = maybe.Just(CapSquare)
				continue
			case "miter":
				s.Join = maybe.Just(JoinMiter)
				continue
			case "bevel":
				s.Join = maybe.Just(JoinBevel)
				continue
			}
			if d, ok := dashPatterns[name]; ok {
				s.Dash = maybe.Just(d)
				continue
			}
		}
		if t.TokenType == css.NumberToken {
			if x, err := strconv.ParseFloat(string(t.Data), 64); err == nil {
				s.MiterLimit = maybe.Just(Float(x))
				continue
			}
		}
		if p, ok := parsePaint(t); ok {
			s.Paint = maybe.Just(p)
			continue
		}
		return nil, syntaxError(KindStroke, tokens)
	}
	return s, nil
}

func parseFeatures(tokens []css.Token) (Value, error) {
	var settings []fold.Pair[string, uint32]
	for _, group := range splitAtCommas(tokens) {
		if len(group) == 0 || len(group) > 2 || group[0].TokenType != css.IdentToken {
			return nil, syntaxError(KindFeatures, tokens)
		}
		value := uint32(1)
		if len(group) == 2 {
			n, err := strconv.ParseUint(string(group[1].Data), 10, 32)
			if group[1].TokenType != css.NumberToken || err != nil {
				return nil, syntaxError(KindFeatures, tokens)
			}
			value = uint32(n)
		}
		settings = append(settings, Feature(string(group[0].Data), value))
	}
	return FeaturesOf(settings...), nil
}

func parseDecorations(tokens []css.Token) (Value, error) {
	var decos Decorations
	for _, group := range splitAtCommas(tokens) {
		if len(group) == 0 || group[0].TokenType != css.IdentToken {
			return nil, syntaxError(KindDecorations, tokens)
		}
		line, ok := LineFromString(string(group[0].Data))
		if !ok {
			return nil, syntaxError(KindDecorations, tokens)
		}
		d := Decoration{Line: line}
		if len(group) > 1 {
			s, err := parseStroke(group[1:])
			if err != nil {
				return nil, err
			}
			d.Stroke = s.(Stroke)
		}
		decos = append(decos, d)
	}
	return decos, nil
}

func splitAtCommas(tokens []css.Token) [][]css.Token {
	var groups [][]css.Token
	start := 0
	for i, t := range tokens {
		if t.TokenType == css.CommaToken {
			groups = append(groups, tokens[start:i])
			start = i + 1
		}
	}
	return append(groups, tokens[start:])
}

func unquote(data []byte) string {
	s := string(data)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func syntaxError(k Kind, tokens []css.Token) error {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t.Data)
	}
	return fmt.Errorf("%w: cannot read %q as %s", ErrSyntax, strings.Join(parts, " "), k)
}
