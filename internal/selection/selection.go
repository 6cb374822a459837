package selection

import (
	"cotree/internal/document"
	. "cotree/internal/utils"
)

// Caret is the cursor inside one selected node. Without InText the whole node is selected.
type Caret struct {
	Offset int  // position in the decimal text, 0..len
	InText bool // false selects the whole node
}

func Whole() Caret        { return Caret{} }
func At(offset int) Caret { return Caret{Offset: offset, InText: true} }

// Selection maps node ids to their caret. Several entries make a multi-cursor.
type Selection map[string]Caret

func New(ids ...string) Selection {
	sel := Selection{}
	for _, id := range ids { sel[id] = Whole() }
	return sel
}

func (this Selection) Clone() Selection {
	clone := make(Selection, len(this))
	for id, caret := range this { clone[id] = caret }
	return clone
}

// IDs are the selected ids in a stable order, edits visit nodes in this order.
func (this Selection) IDs() []string { return SortedKeys(this) }

func (this Selection) IsSelected(id string) bool {
	_, found := this[id]
	return found
}

// Prune drops ids that no longer exist, clamps carets to the current text and
// falls back to the root when nothing is left.
func Prune(tree *document.Tree, sel Selection) Selection {
	pruned := Selection{}
	for id, caret := range sel {
		node, found := tree.Find(id)
		if !found { continue }
		if !node.IsInteger() {
			caret = Whole()
		} else if caret.InText {
			caret.Offset = Clamp(caret.Offset, 0, len(node.Text()))
		}
		pruned[id] = caret
	}
	if len(pruned) == 0 && !tree.IsEmpty() { pruned[tree.Root().ID] = Whole() }
	return pruned
}

// Down enters a list at its first child, or an integer at its first digit.
func Down(tree *document.Tree, sel Selection) Selection {
	return move(tree, sel, func(node *document.Node, caret Caret) (string, Caret) {
		if node.IsInteger() { return node.ID, At(0) }
		if len(node.Children) == 0 { return node.ID, caret }
		return node.Children[0], Whole()
	})
}

// Up leaves the digits first, then climbs to the parent. The root stays put.
func Up(tree *document.Tree, sel Selection) Selection {
	return move(tree, sel, func(node *document.Node, caret Caret) (string, Caret) {
		if caret.InText { return node.ID, Whole() }
		parent, found := tree.FindParent(node.ID)
		if !found { return node.ID, Whole() }
		return parent.ID, Whole()
	})
}

func Left(tree *document.Tree, sel Selection) Selection {
	return move(tree, sel, func(node *document.Node, caret Caret) (string, Caret) {
		if caret.InText && node.IsInteger() { return node.ID, At(Max(caret.Offset-1, 0)) }
		return sibling(tree, node, -1, caret)
	})
}

func Right(tree *document.Tree, sel Selection) Selection {
	return move(tree, sel, func(node *document.Node, caret Caret) (string, Caret) {
		if caret.InText && node.IsInteger() { return node.ID, At(Min(caret.Offset+1, len(node.Text()))) }
		return sibling(tree, node, 1, caret)
	})
}

func sibling(tree *document.Tree, node *document.Node, delta int, caret Caret) (string, Caret) {
	parent, found := tree.FindParent(node.ID)
	if !found { return node.ID, caret }
	index := Clamp(IndexOf(parent.Children, node.ID)+delta, 0, len(parent.Children)-1)
	return parent.Children[index], Whole()
}

func move(tree *document.Tree, sel Selection, step func(*document.Node, Caret) (string, Caret)) Selection {
	moved := Selection{}
	for _, id := range sel.IDs() {
		node, found := tree.Find(id)
		if !found { continue }
		next, caret := step(node, sel[id])
		moved[next] = caret
	}
	return moved
}
