package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/coffeerun/internal/input"
	"github.com/tomz197/coffeerun/internal/loop"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/store"
)

const storeTimeout = 5 * time.Second

// enterName applies one event to the score entry form.
func (a *App) enterName(ev input.Event) {
	if ev.Kind != input.EventKey {
		return
	}
	switch ev.Key {
	case input.KeyRune:
		if len(a.name) < lconf.MaxNameLength && unicode.IsPrint(ev.Rune) {
			a.name = append(a.name, ev.Rune)
		}
	case input.KeySpace:
		if len(a.name) > 0 && len(a.name) < lconf.MaxNameLength {
			a.name = append(a.name, ' ')
		}
	case input.KeyBackspace:
		if len(a.name) > 0 {
			a.name = a.name[:len(a.name)-1]
		}
	case input.KeyEscape:
		a.SetAppView(loop.ViewGame)
	case input.KeyEnter:
		a.submit()
	}
}

// submit saves the entered name with the round's score and shows the leaderboard.
func (a *App) submit() {
	ctx, cancel := context.WithTimeout(a.ctx, storeTimeout)
	defer cancel()

	err := a.scores.Save(ctx, store.Score{Name: string(a.name), Score: a.score})
	switch {
	case errors.Is(err, store.ErrEmptyName):
		a.message = "Please enter a name"
		return
	case err != nil:
		a.logger.Error("saving score failed", "err", err)
		a.message = "Could not save your score, try again"
		return
	}
	a.logger.Info("score saved", "name", strings.TrimSpace(string(a.name)), "score", a.score)
	a.SetAppView(loop.ViewLeaderboard)
}

func (a *App) refreshBoard() {
	ctx, cancel := context.WithTimeout(a.ctx, storeTimeout)
	defer cancel()

	board, err := a.scores.Top(ctx, a.boardSize())
	if err != nil {
		a.logger.Error("loading leaderboard failed", "err", err)
		a.message = "Leaderboard unavailable"
		board = nil
	}
	a.board = board
}

func (a *App) boardSize() int {
	if n := a.source.Current().Leaderboard.Size; n > 0 {
		return n
	}
	return lconf.LeaderboardSize
}

type textStyles struct {
	title, text, dim, input lipgloss.Style
}

// styles returns the text styles for the current palette, rebuilt when the
// configuration changes it.
func (a *App) styles() textStyles {
	p := a.palette()
	if a.styledOK && p == a.styledFor {
		return a.styled
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	bg := lipgloss.Color(p.Background.Hex())
	text := r.NewStyle().Foreground(lipgloss.Color(p.Text.Hex())).Background(bg)
	a.styled = textStyles{
		title: text.Foreground(lipgloss.Color(p.Primary.Hex())).Bold(true),
		text:  text,
		dim:   text.Faint(true),
		input: text.Background(lipgloss.Color(p.Tertiary.Hex())).Padding(0, 1),
	}
	a.styledFor = p
	a.styledOK = true
	return a.styled
}

func (a *App) renderSetScore(cols, rows int) {
	st := a.styles()
	mid := rows / 2

	field := string(a.name) + strings.Repeat("_", lconf.MaxNameLength-len(a.name))
	lines := []string{
		st.title.Render(fmt.Sprintf("Score: %d", a.score)),
		"",
		st.text.Render("Enter your name"),
		st.input.Render(field),
		"",
		st.dim.Render("Enter to save, Esc to skip"),
	}
	if a.message != "" {
		lines = append(lines, "", st.text.Render(a.message))
	}
	a.centerLines(cols, mid-3, lines)
}

func (a *App) renderLeaderboard(cols, rows int) {
	st := a.styles()
	title := a.source.Current().Leaderboard.Title
	if title == "" {
		title = "Leaderboard"
	}

	lines := []string{st.title.Render(title), ""}
	if len(a.board) == 0 {
		lines = append(lines, st.dim.Render("No scores yet"))
	}
	for i, s := range a.board {
		lines = append(lines, st.text.Render(fmt.Sprintf("%2d. %-*s %6d", i+1, lconf.MaxNameLength, s.Name, s.Score)))
	}
	if a.message != "" {
		lines = append(lines, "", st.text.Render(a.message))
	}
	lines = append(lines, "", st.dim.Render("Press any key to play again"))
	a.centerLines(cols, max(1, (rows-len(lines))/2), lines)
}

func (a *App) centerLines(cols, row int, lines []string) {
	for i, l := range lines {
		if l == "" {
			continue
		}
		col := max(1, (cols-lipgloss.Width(l))/2+1)
		a.cw.WriteAt(col, row+i, l)
	}
}
