/*
Package doc implements the document tree the layout driver walks.

A document is a tree of immutable nodes. Scope nodes carry the style
directives of their scope and group other nodes. Leaves are text, displayed
state values, state updates and locate callbacks. A locate callback is
deferred: layout calls it once the state it may query is known, and walks the
content it returns in place of the locate node.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package doc

import (
	"fmt"

	"github.com/npillmayer/fold/loc"
	"github.com/npillmayer/fold/state"
	"github.com/npillmayer/fold/style"
	tp "github.com/xlab/treeprint"
)

// NodeKind is the type of a document node.
type NodeKind uint8

const (
	SeqNode    NodeKind = iota // children without a scope of their own
	ScopeNode                  // children within a style scope
	TextNode                   // a run of text
	ValueNode                  // a run displaying a value
	UpdateNode                 // updates of a state slot
	LocateNode                 // a deferred callback
)

func (k NodeKind) String() string {
	return [...]string{"seq", "scope", "text", "value", "update", "locate"}[k]
}

// Context is the view a locate callback has on the document state at the
// location of its locate node.
type Context interface {
	// Here returns the location of the locate node.
	Here() loc.Location
	// Query returns the value of a slot here.
	Query(slot string) (style.Value, error)
	// QueryAt returns the value of a slot at another location.
	QueryAt(slot string, at loc.Location) (style.Value, error)
	// Final returns the value of a slot after its last update.
	Final(slot string) (style.Value, error)
	// Resolve returns the effective value of a style property here.
	Resolve(key string) (style.Value, error)
}

// LocateFunc computes the content of a locate node. It may return nil for no
// content.
type LocateFunc func(ctx Context) (*Node, error)

// Node is the base type documents are built of. Nodes are immutable after
// creation; a node may appear in more than one place of a document.
type Node struct {
	kind     NodeKind
	children []*Node
	styles   *style.Map
	text     string
	value    style.Value
	slot     string
	ops      []state.Op
	fn       LocateFunc
}

// Seq groups nodes without opening a scope.
func Seq(children ...*Node) *Node {
	return &Node{kind: SeqNode, children: compact(children)}
}

// Scope groups nodes within a new style scope. m may be nil.
func Scope(m *style.Map, children ...*Node) *Node {
	return &Node{kind: ScopeNode, styles: m, children: compact(children)}
}

// Text creates a text run.
func Text(s string) *Node {
	return &Node{kind: TextNode, text: s}
}

// Value creates a run displaying v, usually a state value computed by a
// locate callback.
func Value(v style.Value) *Node {
	assertThat(v != nil, "value node without value")
	return &Node{kind: ValueNode, value: v, text: v.String()}
}

// Update creates updates of a state slot. Several operations at one node are
// applied in the given order.
func Update(slot string, ops ...state.Op) *Node {
	assertThat(slot != "", "update of unnamed state slot")
	assertThat(len(ops) > 0, "update of slot %q without operations", slot)
	return &Node{kind: UpdateNode, slot: slot, ops: ops}
}

// Locate creates a deferred callback.
func Locate(fn LocateFunc) *Node {
	assertThat(fn != nil, "locate without callback")
	return &Node{kind: LocateNode, fn: fn}
}

// Kind returns the kind of the node.
func (node *Node) Kind() NodeKind {
	return node.kind
}

// Styles returns the style directives of a scope node.
func (node *Node) Styles() *style.Map {
	return node.styles
}

// Text returns the text of a text or value node.
func (node *Node) Text() string {
	return node.text
}

// Value returns the value of a value node.
func (node *Node) Value() style.Value {
	return node.value
}

// Slot returns the slot name of an update node.
func (node *Node) Slot() string {
	return node.slot
}

// Ops returns the operations of an update node.
func (node *Node) Ops() []state.Op {
	return node.ops
}

// Func returns the callback of a locate node.
func (node *Node) Func() LocateFunc {
	return node.fn
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node) ChildCount() int {
	return len(node.children)
}

// Child returns the n-th child of a node.
func (node *Node) Child(n int) (*Node, bool) {
	if n < 0 || len(node.children) <= n {
		return nil, false
	}
	return node.children[n], true
}

// Children returns a slice with all children of a node.
func (node *Node) Children() []*Node {
	children := make([]*Node, len(node.children))
	copy(children, node.children)
	return children
}

func (node *Node) String() string {
	switch node.kind {
	case ScopeNode:
		return fmt.Sprintf("scope %s", node.styles)
	case TextNode:
		return fmt.Sprintf("text %q", node.text)
	case ValueNode:
		return fmt.Sprintf("value %s", node.value)
	case UpdateNode:
		return fmt.Sprintf("update %s %v", node.slot, node.ops)
	}
	return node.kind.String()
}

// Dump returns a tree representation of the document below node, with the
// location of every node relative to at.
func Dump(node *Node, at loc.Location) string {
	root := tp.New()
	dump(root.AddBranch(at.String()+" "+node.String()), node, at)
	return root.String()
}

func dump(branch tp.Tree, node *Node, at loc.Location) {
	for i, ch := range node.children {
		l := at.Child(i)
		if ch.ChildCount() == 0 {
			branch.AddNode(l.String() + " " + ch.String())
			continue
		}
		dump(branch.AddBranch(l.String()+" "+ch.String()), ch, l)
	}
}

func compact(nodes []*Node) []*Node {
	r := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			r = append(r, n)
		}
	}
	return r
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("doc: "+msg, msgargs...)
		panic(msg)
	}
}
