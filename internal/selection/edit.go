package selection

import (
	"strconv"

	"cotree/internal/document"
	"cotree/internal/history"
	"cotree/internal/replay"
	. "cotree/internal/utils"
)

// Edit is the outcome of an editing command: the operations to apply in order,
// the selection afterwards and a status line for the user.
type Edit struct {
	Ops       []history.Operation
	Selection Selection
	Status    string
}

// batch builds operations one selected node at a time against a scratch copy of
// the tree, so later operations see the effect of earlier ones.
type batch struct {
	scratch *document.Tree
	edit    Edit
}

func newBatch(tree *document.Tree, sel Selection) *batch {
	return &batch{scratch: tree.Clone(), edit: Edit{Selection: sel.Clone()}}
}

func (b *batch) add(op history.Operation) bool {
	if err := replay.Apply(b.scratch, history.Entry{Operation: op}); err != nil {
		b.edit.Status = err.Error()
		return false
	}
	b.edit.Ops = append(b.edit.Ops, op)
	return true
}

func (b *batch) status(message string) { b.edit.Status = message }

// each visits the selected nodes that still exist in the scratch tree.
func (b *batch) each(sel Selection, visit func(node *document.Node, caret Caret)) Edit {
	for _, id := range sel.IDs() {
		node, found := b.scratch.Find(id)
		if !found { continue }
		visit(node, sel[id])
	}
	return b.edit
}

// parseDigits turns edited text back into a value. Text left without digits is zero.
func parseDigits(text string) (int64, bool) {
	if text == "" || text == "-" { return 0, true }
	value, err := strconv.ParseInt(text, 10, 64)
	return value, err == nil
}

// InsertDigit types d at the caret of every selected integer.
func InsertDigit(tree *document.Tree, sel Selection, d int) Edit {
	b := newBatch(tree, sel)
	return b.each(sel, func(node *document.Node, caret Caret) {
		if !node.IsInteger() { b.status("can't type digits into +"); return }
		if !caret.InText { b.status("press down to edit the number"); return }

		text := node.Text()
		offset := Clamp(caret.Offset, 0, len(text))
		typed := text[:offset] + strconv.Itoa(d) + text[offset:]
		value, ok := parseDigits(typed)
		if !ok { b.status("not a number: " + typed); return }

		if b.add(history.NewSetInteger(node.ID, value)) {
			b.edit.Selection[node.ID] = At(Min(offset+1, len(strconv.FormatInt(value, 10))))
		}
	})
}

// DeleteBackward removes the digit before the caret. A whole selected integer is
// removed from its list and the selection moves to that list.
func DeleteBackward(tree *document.Tree, sel Selection) Edit {
	b := newBatch(tree, sel)
	return b.each(sel, func(node *document.Node, caret Caret) {
		if !node.IsInteger() { b.status("can't delete +, delete its numbers first"); return }

		if !caret.InText {
			parent, found := b.scratch.FindParent(node.ID)
			if !found { b.status("can't delete the root"); return }
			if b.add(history.NewDelete(node.ID)) {
				delete(b.edit.Selection, node.ID)
				b.edit.Selection[parent.ID] = Whole()
			}
			return
		}

		text := node.Text()
		offset := Clamp(caret.Offset, 0, len(text))
		if offset == 0 { b.status("nothing to delete"); return }
		b.setText(node, text[:offset-1]+text[offset:], offset-1)
	})
}

// DeleteForward removes the digit after the caret.
func DeleteForward(tree *document.Tree, sel Selection) Edit {
	b := newBatch(tree, sel)
	return b.each(sel, func(node *document.Node, caret Caret) {
		if !node.IsInteger() { b.status("can't delete +, delete its numbers first"); return }
		if !caret.InText { b.status("press down to edit the number"); return }

		text := node.Text()
		offset := Clamp(caret.Offset, 0, len(text))
		if offset == len(text) { b.status("nothing to delete"); return }
		b.setText(node, text[:offset]+text[offset+1:], offset)
	})
}

func (b *batch) setText(node *document.Node, text string, offset int) {
	value, ok := parseDigits(text)
	if !ok { b.status("not a number: " + text); return }
	if b.add(history.NewSetInteger(node.ID, value)) {
		b.edit.Selection[node.ID] = At(Clamp(offset, 0, len(strconv.FormatInt(value, 10))))
	}
}

// Wrap puts every selected integer into a new + of its own. The selection stays on the integer.
func Wrap(tree *document.Tree, sel Selection) Edit {
	b := newBatch(tree, sel)
	return b.each(sel, func(node *document.Node, caret Caret) {
		if !node.IsInteger() { b.status("can't wrap + into +"); return }
		b.add(history.NewWrapInAdd(node.ID, document.NewID()))
	})
}

// InsertSibling adds the number 1 next to every selected node and selects it.
func InsertSibling(tree *document.Tree, sel Selection, after bool, author string) Edit {
	b := newBatch(tree, sel)
	return b.each(sel, func(node *document.Node, caret Caret) {
		parent, found := b.scratch.FindParent(node.ID)
		if !found { b.status("the root has no siblings, wrap it first"); return }

		index := IndexOf(parent.Children, node.ID)
		if after { index++ }
		inserted := document.NewInteger(document.NewID(), author, 1)
		if b.add(history.NewInsertAtIndex(parent.ID, index, inserted)) {
			delete(b.edit.Selection, node.ID)
			b.edit.Selection[inserted.ID] = Whole()
		}
	})
}
