package history

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"cotree/internal/document"

	"github.com/goccy/go-json"
)

type OpKind string

const (
	Initialize    OpKind = "Initialize"
	SetInteger    OpKind = "SetInteger"
	InsertAtIndex OpKind = "InsertAtIndex"
	Delete        OpKind = "Delete"
	WrapInAdd     OpKind = "WrapInAdd"
)

var ErrMalformed = errors.New("malformed operation")

// Operation is a tagged variant, Kind selects which fields are meaningful.
// Existing nodes are addressed by id only.
type Operation struct {
	Kind    OpKind            `json:"kind"`
	Target  string            `json:"target,omitempty"`  // SetInteger, Delete, WrapInAdd
	Value   int64             `json:"value,omitempty"`   // SetInteger
	Parent  string            `json:"parent,omitempty"`  // InsertAtIndex
	Index   int               `json:"index,omitempty"`   // InsertAtIndex
	Node    *document.Subtree `json:"node,omitempty"`    // Initialize, InsertAtIndex
	Wrapper string            `json:"wrapper,omitempty"` // WrapInAdd
}

func NewInitialize(root document.Subtree) Operation {
	return Operation{Kind: Initialize, Node: &root}
}

func NewSetInteger(target string, value int64) Operation {
	return Operation{Kind: SetInteger, Target: target, Value: value}
}

func NewInsertAtIndex(parent string, index int, node document.Subtree) Operation {
	return Operation{Kind: InsertAtIndex, Parent: parent, Index: index, Node: &node}
}

func NewDelete(target string) Operation {
	return Operation{Kind: Delete, Target: target}
}

func NewWrapInAdd(target, wrapper string) Operation {
	return Operation{Kind: WrapInAdd, Target: target, Wrapper: wrapper}
}

// Check reports missing fields for the operation kind and text that is not
// valid UTF-8, which would not survive the JSON wire form unchanged.
func (op Operation) Check() error {
	if err := validText(op.texts()...); err != nil { return err }
	switch op.Kind {
	case Initialize:
		if op.Node == nil { return fmt.Errorf("%w: %s without node", ErrMalformed, op.Kind) }
	case SetInteger, Delete:
		if op.Target == "" { return fmt.Errorf("%w: %s without target", ErrMalformed, op.Kind) }
	case InsertAtIndex:
		if op.Parent == "" || op.Node == nil {
			return fmt.Errorf("%w: %s without parent or node", ErrMalformed, op.Kind)
		}
		if op.Index < 0 { return fmt.Errorf("%w: negative index %d", ErrMalformed, op.Index) }
	case WrapInAdd:
		if op.Target == "" || op.Wrapper == "" {
			return fmt.Errorf("%w: %s without target or wrapper", ErrMalformed, op.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformed, op.Kind)
	}
	return nil
}

func (op Operation) texts() []string {
	texts := []string{string(op.Kind), op.Target, op.Parent, op.Wrapper}
	if op.Node != nil { texts = subtreeTexts(*op.Node, texts) }
	return texts
}

func subtreeTexts(s document.Subtree, into []string) []string {
	into = append(into, s.ID, s.LastEditor)
	for _, child := range s.Children {
		into = subtreeTexts(child, into)
	}
	return into
}

func validText(texts ...string) error {
	for _, text := range texts {
		if !utf8.ValidString(text) { return fmt.Errorf("%w: invalid UTF-8 in %q", ErrMalformed, text) }
	}
	return nil
}

// Encode is the deterministic byte form of the operation that feeds the entry hash.
func (op Operation) Encode() ([]byte, error) {
	return json.Marshal(op)
}

func (op Operation) String() string {
	switch op.Kind {
	case Initialize:
		return fmt.Sprintf("Initialize(%s)", op.Node)
	case SetInteger:
		return fmt.Sprintf("SetInteger(%s, %d)", op.Target, op.Value)
	case InsertAtIndex:
		return fmt.Sprintf("InsertAtIndex(%s, %d, %s)", op.Parent, op.Index, op.Node)
	case Delete:
		return fmt.Sprintf("Delete(%s)", op.Target)
	case WrapInAdd:
		return fmt.Sprintf("WrapInAdd(%s, %s)", op.Target, op.Wrapper)
	}
	return string(op.Kind)
}
