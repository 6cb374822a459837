package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Kind int

const (
	Integer Kind = iota
	List
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case List:
		return "list"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) MarshalText() ([]byte, error) {
	if k != Integer && k != List { return nil, fmt.Errorf("unknown node kind %d", int(k)) }
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "integer":
		*k = Integer
	case "list":
		*k = List
	default:
		return fmt.Errorf("unknown node kind %q", text)
	}
	return nil
}

// Node is an arena element. Links to other nodes are ids, never pointers.
type Node struct {
	ID         string   // immutable, unique in the tree
	LastEditor string   // peer that last mutated this node
	Kind       Kind     // Integer or List
	Value      int64    // payload of an Integer
	Children   []string // payload of a List, ordered child ids
	Parent     string   // id of the containing List, "" for the root
}

func (n *Node) IsInteger() bool { return n.Kind == Integer }
func (n *Node) IsList() bool    { return n.Kind == List }

// Text is the decimal rendering of an Integer, the caret moves inside it.
func (n *Node) Text() string { return strconv.FormatInt(n.Value, 10) }

// Subtree is the nested value form of a node, used by operations and snapshots.
type Subtree struct {
	ID         string    `json:"id"`
	LastEditor string    `json:"last_editor"`
	Kind       Kind      `json:"kind"`
	Value      int64     `json:"value,omitempty"`
	Children   []Subtree `json:"children,omitempty"`
}

func NewID() string { return uuid.NewString() }

func NewInteger(id, editor string, value int64) Subtree {
	return Subtree{ID: id, LastEditor: editor, Kind: Integer, Value: value}
}

func NewList(id, editor string, children ...Subtree) Subtree {
	return Subtree{ID: id, LastEditor: editor, Kind: List, Children: children}
}

// ids collects every identifier of the subtree in pre-order.
func (s Subtree) ids(into []string) []string {
	into = append(into, s.ID)
	for _, child := range s.Children {
		into = child.ids(into)
	}
	return into
}

func (s Subtree) wellFormed() error {
	if s.Kind == Integer && len(s.Children) > 0 { return fmt.Errorf("integer %s has children", s.ID) }
	for _, child := range s.Children {
		if err := child.wellFormed(); err != nil { return err }
	}
	return nil
}

func (s Subtree) Equal(other Subtree) bool {
	if s.ID != other.ID || s.LastEditor != other.LastEditor || s.Kind != other.Kind { return false }
	if s.Kind == Integer { return s.Value == other.Value }
	if len(s.Children) != len(other.Children) { return false }
	for i := range s.Children {
		if !s.Children[i].Equal(other.Children[i]) { return false }
	}
	return true
}

// String renders the subtree as an s-expression, lists are additions.
func (s Subtree) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Subtree) write(b *strings.Builder) {
	if s.Kind == Integer {
		b.WriteString(strconv.FormatInt(s.Value, 10))
		return
	}
	b.WriteString("(+")
	for _, child := range s.Children {
		b.WriteByte(' ')
		child.write(b)
	}
	b.WriteByte(')')
}
