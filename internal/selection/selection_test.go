package selection

import (
	"testing"

	"cotree/internal/document"
	"cotree/internal/history"
	"cotree/internal/replay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds (+ 1 (+ 23 -4)) with ids l0, a, l1, b, c.
func sample(t *testing.T) *document.Tree {
	tree := document.NewTree()
	require.NoError(t, tree.SetRoot(document.NewList("l0", "p",
		document.NewInteger("a", "p", 1),
		document.NewList("l1", "p", document.NewInteger("b", "p", 23), document.NewInteger("c", "p", -4)),
	)))
	return tree
}

func apply(t *testing.T, tree *document.Tree, edit Edit) {
	t.Helper()
	for _, op := range edit.Ops {
		require.NoError(t, replay.Apply(tree, history.Entry{Author: "me", Operation: op}))
	}
}

func TestNavigation(t *testing.T) {
	tree := sample(t)
	tests := []struct {
		name     string
		move     func(*document.Tree, Selection) Selection
		from     Selection
		expected Selection
	}{
		{"down into list", Down, New("l0"), New("a")},
		{"down into digits", Down, New("b"), Selection{"b": At(0)}},
		{"up from digits", Up, Selection{"b": At(1)}, New("b")},
		{"up to parent", Up, New("b"), New("l1")},
		{"up at root", Up, New("l0"), New("l0")},
		{"right sibling", Right, New("a"), New("l1")},
		{"right clamps", Right, New("c"), New("c")},
		{"left sibling", Left, New("c"), New("b")},
		{"left clamps", Left, New("a"), New("a")},
		{"left at root", Left, New("l0"), New("l0")},
		{"caret right", Right, Selection{"b": At(1)}, Selection{"b": At(2)}},
		{"caret right clamps", Right, Selection{"b": At(2)}, Selection{"b": At(2)}},
		{"caret left clamps", Left, Selection{"b": At(0)}, Selection{"b": At(0)}},
		{"cursors merge", Left, New("b", "c"), New("b")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.move(tree, test.from))
		})
	}
}

func TestDownOnEmptyListStays(t *testing.T) {
	tree := document.NewTree()
	require.NoError(t, tree.SetRoot(document.NewList("l", "p")))
	assert.Equal(t, New("l"), Down(tree, New("l")))
}

func TestPrune(t *testing.T) {
	tree := sample(t)
	pruned := Prune(tree, Selection{"gone": Whole(), "b": At(9), "l1": At(1)})
	assert.Equal(t, Selection{"b": At(2), "l1": Whole()}, pruned)

	assert.Equal(t, New("l0"), Prune(tree, Selection{"gone": Whole()}))
	assert.Empty(t, Prune(document.NewTree(), Selection{}))
}

func TestInsertDigit(t *testing.T) {
	tree := sample(t)
	edit := InsertDigit(tree, Selection{"b": At(1), "c": At(1)}, 5)
	require.Len(t, edit.Ops, 2)
	assert.Empty(t, edit.Status)
	assert.Equal(t, Selection{"b": At(2), "c": At(2)}, edit.Selection)

	apply(t, tree, edit)
	assert.Equal(t, "(+ 1 (+ 253 -54))", tree.String())
}

func TestInsertDigitNoOps(t *testing.T) {
	tree := sample(t)

	edit := InsertDigit(tree, New("l1"), 1)
	assert.Empty(t, edit.Ops)
	assert.NotEmpty(t, edit.Status)

	edit = InsertDigit(tree, New("b"), 1)
	assert.Empty(t, edit.Ops, "digits need a caret")
	assert.NotEmpty(t, edit.Status)

	edit = InsertDigit(tree, Selection{"c": At(0)}, 1)
	assert.Empty(t, edit.Ops, "1-4 is not a number")
	assert.Contains(t, edit.Status, "1-4")
}

func TestInsertDigitLeadingZero(t *testing.T) {
	tree := sample(t)
	edit := InsertDigit(tree, Selection{"a": At(0)}, 0)
	require.Len(t, edit.Ops, 1)
	assert.Equal(t, int64(1), edit.Ops[0].Value)
	assert.Equal(t, Selection{"a": At(1)}, edit.Selection)
}

func TestDeleteBackward(t *testing.T) {
	tree := sample(t)

	edit := DeleteBackward(tree, Selection{"b": At(1)})
	require.Len(t, edit.Ops, 1)
	assert.Equal(t, history.NewSetInteger("b", 3), edit.Ops[0])
	assert.Equal(t, Selection{"b": At(0)}, edit.Selection)

	edit = DeleteBackward(tree, Selection{"a": At(1)})
	assert.Equal(t, history.NewSetInteger("a", 0), edit.Ops[0], "no digits left is zero")

	edit = DeleteBackward(tree, Selection{"b": At(0)})
	assert.Empty(t, edit.Ops)
	assert.NotEmpty(t, edit.Status)
}

func TestDeleteBackwardRemovesWholeInteger(t *testing.T) {
	tree := sample(t)
	edit := DeleteBackward(tree, New("b", "c"))
	require.Len(t, edit.Ops, 2)
	assert.Equal(t, New("l1"), edit.Selection)

	apply(t, tree, edit)
	assert.Equal(t, "(+ 1 (+))", tree.String())
}

func TestDeleteBackwardNoOps(t *testing.T) {
	tree := sample(t)
	assert.Empty(t, DeleteBackward(tree, New("l1")).Ops)

	root := document.NewTree()
	require.NoError(t, root.SetRoot(document.NewInteger("A", "p", 42)))
	edit := DeleteBackward(root, New("A"))
	assert.Empty(t, edit.Ops)
	assert.Equal(t, "can't delete the root", edit.Status)
}

func TestDeleteForward(t *testing.T) {
	tree := sample(t)
	edit := DeleteForward(tree, Selection{"c": At(0)})
	require.Len(t, edit.Ops, 1)
	assert.Equal(t, history.NewSetInteger("c", 4), edit.Ops[0])
	assert.Equal(t, Selection{"c": At(0)}, edit.Selection)

	assert.Empty(t, DeleteForward(tree, Selection{"c": At(2)}).Ops)
	assert.Empty(t, DeleteForward(tree, New("c")).Ops)
}

func TestWrap(t *testing.T) {
	tree := sample(t)
	edit := Wrap(tree, New("a", "l1"))
	require.Len(t, edit.Ops, 1)
	assert.Equal(t, "can't wrap + into +", edit.Status)
	assert.Equal(t, New("a", "l1"), edit.Selection)

	apply(t, tree, edit)
	assert.Equal(t, "(+ (+ 1) (+ 23 -4))", tree.String())
	parent, _ := tree.FindParent("a")
	assert.Equal(t, edit.Ops[0].Wrapper, parent.ID)
}

func TestInsertSibling(t *testing.T) {
	tree := sample(t)
	edit := InsertSibling(tree, New("b", "c"), true, "me")
	require.Len(t, edit.Ops, 2)
	assert.Equal(t, 1, edit.Ops[0].Index)
	assert.Equal(t, 3, edit.Ops[1].Index, "later inserts see earlier ones")
	assert.Len(t, edit.Selection, 2)
	for _, op := range edit.Ops {
		assert.True(t, edit.Selection.IsSelected(op.Node.ID))
	}

	apply(t, tree, edit)
	assert.Equal(t, "(+ 1 (+ 23 1 -4 1))", tree.String())

	before := InsertSibling(tree, New("a"), false, "me")
	assert.Equal(t, 0, before.Ops[0].Index)

	root := InsertSibling(tree, New("l0"), true, "me")
	assert.Empty(t, root.Ops)
	assert.NotEmpty(t, root.Status)
}

func TestRender(t *testing.T) {
	tree := sample(t)

	fragments := Render(tree, Selection{"l1": Whole(), "b": At(1), "a": Whole()})
	assert.Equal(t, "(+ 1 (+ 23 -4))", Plain(fragments))
	assert.Equal(t, []Fragment{
		{Text: "("}, {Text: "+"},
		{Text: " "}, {Text: "1", Emphasized: true},
		{Text: " "}, {Text: "(", Emphasized: true}, {Text: "+"},
		{Text: " "}, {Text: "2"}, {Cursor: true}, {Text: "3"},
		{Text: " "}, {Text: "-4"},
		{Text: ")", Emphasized: true},
		{Text: ")"},
	}, fragments)

	assert.Nil(t, Render(document.NewTree(), Selection{}))
}
