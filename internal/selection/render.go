package selection

import "cotree/internal/document"

// Fragment is a run of text for the terminal. A Cursor fragment carries no text
// and marks the caret position.
type Fragment struct {
	Text       string
	Emphasized bool
	Cursor     bool
}

// Render lays the tree out as an s-expression. Selected lists emphasize their
// parentheses, selected integers their digits, and a caret splits the digits.
func Render(tree *document.Tree, sel Selection) []Fragment {
	if tree.IsEmpty() { return nil }
	return render(tree, tree.Root(), sel, nil)
}

func render(tree *document.Tree, node *document.Node, sel Selection, into []Fragment) []Fragment {
	caret, selected := sel[node.ID]

	if node.IsInteger() {
		text := node.Text()
		if !selected { return append(into, Fragment{Text: text}) }
		if !caret.InText { return append(into, Fragment{Text: text, Emphasized: true}) }
		offset := caret.Offset
		if offset < 0 || offset > len(text) { offset = len(text) }
		return append(into, Fragment{Text: text[:offset]}, Fragment{Cursor: true}, Fragment{Text: text[offset:]})
	}

	into = append(into, Fragment{Text: "(", Emphasized: selected}, Fragment{Text: "+"})
	for _, id := range node.Children {
		child, found := tree.Find(id)
		if !found { continue }
		into = append(into, Fragment{Text: " "})
		into = render(tree, child, sel, into)
	}
	return append(into, Fragment{Text: ")", Emphasized: selected})
}

// Plain is the rendered text without styling.
func Plain(fragments []Fragment) string {
	var text []byte
	for _, f := range fragments { text = append(text, f.Text...) }
	return string(text)
}
