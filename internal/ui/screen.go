package ui

import (
	"context"
	"fmt"

	. "cotree/internal/command"
	"cotree/internal/config"
	"cotree/internal/selection"

	"github.com/acarl005/stripansi"
	"github.com/gdamore/tcell"
	"github.com/gdamore/tcell/encoding"
)

// Screen draws the expression on the first rows and the status on the last one.
type Screen struct {
	Screen  tcell.Screen
	COLUMNS int // terminal size columns
	ROWS    int // terminal size rows

	text      tcell.Style
	highlight tcell.Style
	status    tcell.Style
}

func NewScreen(theme config.Theme) (*Screen, error) {
	encoding.Register()
	screen, err := tcell.NewScreen()
	if err != nil { return nil, err }
	return NewScreenFrom(screen, theme)
}

// NewScreenFrom initializes an existing tcell screen, a simulation screen in tests.
func NewScreenFrom(screen tcell.Screen, theme config.Theme) (*Screen, error) {
	err := screen.Init()
	if err != nil { return nil, fmt.Errorf("init screen: %w", err) }
	screen.Clear()

	s := &Screen{Screen: screen}
	s.COLUMNS, s.ROWS = screen.Size()
	s.text = tcell.StyleDefault.Foreground(tcell.GetColor(theme.Text))
	s.highlight = tcell.StyleDefault.Foreground(tcell.GetColor(theme.HighlightText)).Background(tcell.GetColor(theme.Highlight))
	s.status = tcell.StyleDefault.Foreground(tcell.GetColor(theme.Status))
	return s, nil
}

func (s *Screen) Fini() { s.Screen.Fini() }

// Events decodes key presses into commands until ctx ends or the screen is finalized.
func (s *Screen) Events(ctx context.Context) <-chan Command {
	events := make(chan Command)
	go func() {
		defer close(events)
		for {
			ev := s.Screen.PollEvent()
			if ev == nil { return }

			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.COLUMNS, s.ROWS = s.Screen.Size()
				s.Screen.Sync()
			case *tcell.EventKey:
				cmd, ok := KeyToCommand(ev)
				if !ok { continue }
				select {
				case events <- cmd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events
}

// Draw paints the fragments, wrapping at the screen width, and the status line.
func (s *Screen) Draw(fragments []selection.Fragment, status string) {
	s.Screen.Clear()

	row, col := 0, 0
	put := func(ch rune, style tcell.Style) {
		if col >= s.COLUMNS { row++; col = 0 }
		if row >= s.ROWS-1 { return }
		s.Screen.SetContent(col, row, ch, nil, style)
		col++
	}

	for i, fragment := range fragments {
		if fragment.Cursor {
			// the caret highlights the digit after it, or a blank cell at the end
			if i+1 < len(fragments) && fragments[i+1].Text != "" { continue }
			put(' ', s.highlight)
			continue
		}

		style := s.text
		if fragment.Emphasized { style = s.highlight }
		for j, ch := range fragment.Text {
			if j == 0 && i > 0 && fragments[i-1].Cursor { put(ch, s.highlight); continue }
			put(ch, style)
		}
	}

	s.DrawStatus(status)
	s.Screen.Show()
}

func (s *Screen) DrawStatus(text string) {
	text = stripansi.Strip(text)
	col := 0
	for _, ch := range text {
		if col >= s.COLUMNS { break }
		s.Screen.SetContent(col, s.ROWS-1, ch, nil, s.status)
		col++
	}
}
