package document

import (
	"errors"
	"fmt"

	. "cotree/internal/utils"
)

var (
	ErrNotFound           = errors.New("node not found")
	ErrDuplicateID        = errors.New("duplicate node id")
	ErrNotList            = errors.New("node is not a list")
	ErrNotInteger         = errors.New("node is not an integer")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrRoot               = errors.New("node is the root")
	ErrAlreadyInitialized = errors.New("tree already initialized")
)

// Tree is the mutable document, an arena of nodes indexed by id.
// It has no internal locking, callers serialize access.
type Tree struct {
	root  string
	nodes map[string]*Node
}

func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*Node)}
}

func (t *Tree) IsEmpty() bool { return t.root == "" }
func (t *Tree) Len() int      { return len(t.nodes) }

// Root returns nil for an empty tree.
func (t *Tree) Root() *Node {
	if t.IsEmpty() { return nil }
	return t.nodes[t.root]
}

func (t *Tree) Find(id string) (*Node, bool) {
	node, found := t.nodes[id]
	return node, found
}

// FindParent returns the List containing id. The root and unknown ids have none.
func (t *Tree) FindParent(id string) (*Node, bool) {
	node, found := t.nodes[id]
	if !found || node.Parent == "" { return nil, false }
	parent, found := t.nodes[node.Parent]
	return parent, found
}

// IndexOf is the position of id among its siblings, -1 for the root or unknown ids.
func (t *Tree) IndexOf(id string) int {
	parent, found := t.FindParent(id)
	if !found { return -1 }
	return IndexOf(parent.Children, id)
}

// Validate walks the tree from the root and reports the first inconsistency.
func (t *Tree) Validate() error {
	if t.IsEmpty() {
		if len(t.nodes) != 0 { return fmt.Errorf("empty tree holds %d nodes", len(t.nodes)) }
		return nil
	}
	seen := make(Set)
	if err := t.validate(t.root, "", seen); err != nil { return err }
	if len(seen) != len(t.nodes) {
		return fmt.Errorf("%d nodes unreachable from the root", len(t.nodes)-len(seen))
	}
	return nil
}

func (t *Tree) validate(id, parent string, seen Set) error {
	if seen.Contains(id) { return fmt.Errorf("%w: %s", ErrDuplicateID, id) }
	seen.Add(id)

	node, found := t.nodes[id]
	if !found { return fmt.Errorf("dangling child %s: %w", id, ErrNotFound) }
	if node.ID != id { return fmt.Errorf("node %s stored under %s", node.ID, id) }
	if node.Parent != parent {
		return fmt.Errorf("node %s links parent %q, found under %q", id, node.Parent, parent)
	}
	if node.Kind == Integer && len(node.Children) > 0 {
		return fmt.Errorf("integer %s has children", id)
	}
	for _, child := range node.Children {
		if err := t.validate(child, id, seen); err != nil { return err }
	}
	return nil
}

// MustValidate panics on an inconsistent tree. A failure here is a bug, never a user error.
func MustValidate(t *Tree) {
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("document invariant violated: %v", err))
	}
}

func (t *Tree) check() {
	if checkInvariants { MustValidate(t) }
}

// admit rejects a subtree that repeats an id, internally or against the tree.
func (t *Tree) admit(s Subtree) error {
	if err := s.wellFormed(); err != nil { return err }
	seen := make(Set)
	for _, id := range s.ids(nil) {
		if id == "" { return fmt.Errorf("%w: empty id", ErrDuplicateID) }
		if seen.Contains(id) || t.nodes[id] != nil { return fmt.Errorf("%w: %s", ErrDuplicateID, id) }
		seen.Add(id)
	}
	return nil
}

func (t *Tree) add(s Subtree, parent string) {
	node := &Node{ID: s.ID, LastEditor: s.LastEditor, Kind: s.Kind, Value: s.Value, Parent: parent}
	if s.Kind == List {
		node.Children = make([]string, 0, len(s.Children))
		for _, child := range s.Children {
			node.Children = append(node.Children, child.ID)
			t.add(child, s.ID)
		}
	}
	t.nodes[s.ID] = node
}

func (t *Tree) drop(id string) {
	node := t.nodes[id]
	for _, child := range node.Children { t.drop(child) }
	delete(t.nodes, id)
}

// SetRoot establishes the first version of the tree.
func (t *Tree) SetRoot(s Subtree) error {
	if !t.IsEmpty() { return ErrAlreadyInitialized }
	if err := t.admit(s); err != nil { return err }
	t.add(s, "")
	t.root = s.ID
	t.check()
	return nil
}

func (t *Tree) SetInteger(id string, value int64, editor string) error {
	node, found := t.nodes[id]
	if !found { return fmt.Errorf("%w: %s", ErrNotFound, id) }
	if node.Kind != Integer { return fmt.Errorf("%w: %s", ErrNotInteger, id) }
	node.Value = value
	node.LastEditor = editor
	t.check()
	return nil
}

// Insert places s into the children of parentID at index, 0 <= index <= len.
func (t *Tree) Insert(parentID string, index int, s Subtree, editor string) error {
	parent, found := t.nodes[parentID]
	if !found { return fmt.Errorf("%w: %s", ErrNotFound, parentID) }
	if parent.Kind != List { return fmt.Errorf("%w: %s", ErrNotList, parentID) }
	if index < 0 || index > len(parent.Children) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, len(parent.Children))
	}
	if err := t.admit(s); err != nil { return err }

	t.add(s, parentID)
	parent.Children = InsertTo(parent.Children, index, s.ID)
	parent.LastEditor = editor
	t.check()
	return nil
}

// Remove deletes the subtree at id from its parent's children.
func (t *Tree) Remove(id string, editor string) error {
	if _, found := t.nodes[id]; !found { return fmt.Errorf("%w: %s", ErrNotFound, id) }
	if id == t.root { return ErrRoot }
	parent, _ := t.FindParent(id)

	parent.Children = FindAndRemove(parent.Children, id)
	parent.LastEditor = editor
	t.drop(id)
	t.check()
	return nil
}

// Wrap replaces id in place with a new List wrapperID whose only child is id.
func (t *Tree) Wrap(id, wrapperID, editor string) error {
	node, found := t.nodes[id]
	if !found { return fmt.Errorf("%w: %s", ErrNotFound, id) }
	if wrapperID == "" || t.nodes[wrapperID] != nil { return fmt.Errorf("%w: %s", ErrDuplicateID, wrapperID) }

	wrapper := &Node{ID: wrapperID, LastEditor: editor, Kind: List, Children: []string{id}, Parent: node.Parent}
	if node.Parent == "" {
		t.root = wrapperID
	} else {
		parent := t.nodes[node.Parent]
		parent.Children[IndexOf(parent.Children, id)] = wrapperID
	}
	node.Parent = wrapperID
	t.nodes[wrapperID] = wrapper
	t.check()
	return nil
}

func (t *Tree) Subtree(id string) (Subtree, bool) {
	node, found := t.nodes[id]
	if !found { return Subtree{}, false }
	s := Subtree{ID: node.ID, LastEditor: node.LastEditor, Kind: node.Kind, Value: node.Value}
	if node.Kind == List {
		s.Children = make([]Subtree, 0, len(node.Children))
		for _, child := range node.Children {
			c, _ := t.Subtree(child)
			s.Children = append(s.Children, c)
		}
	}
	return s, true
}

func (t *Tree) Snapshot() (Subtree, bool) {
	if t.IsEmpty() { return Subtree{}, false }
	return t.Subtree(t.root)
}

// Equal compares structure: ids, kinds, values, child order and last editors.
func (t *Tree) Equal(other *Tree) bool {
	if t.IsEmpty() || other.IsEmpty() { return t.IsEmpty() && other.IsEmpty() }
	a, _ := t.Snapshot()
	b, _ := other.Snapshot()
	return a.Equal(b)
}

func (t *Tree) String() string {
	s, ok := t.Snapshot()
	if !ok { return "<empty>" }
	return s.String()
}

// Clone is an independent copy of the tree.
func (t *Tree) Clone() *Tree {
	clone := NewTree()
	s, ok := t.Snapshot()
	if !ok { return clone }
	clone.add(s, "")
	clone.root = s.ID
	return clone
}
