package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"lessons-cli/internal/model"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(huh.ThemeCharm())
}

// promptTitle asks for a lesson title, pre-filled with initial.
var promptTitle = func(label, initial string) (string, error) {
	title := initial
	err := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title(label).
				Value(&title).
				Validate(func(s string) error {
					if model.NormalizeTitle(s) == "" {
						return fmt.Errorf("title must not be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return "", err
	}
	return model.NormalizeTitle(title), nil
}

// promptLesson asks the user to pick a lesson and returns its 1-based position.
var promptLesson = func(label string, lessons []model.Lesson) (int, error) {
	opts := make([]huh.Option[int], 0, len(lessons))
	for i, l := range lessons {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d. %s", i+1, l.Title), i+1))
	}
	pos := 1
	err := newForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(label).
				Options(opts...).
				Value(&pos),
		),
	).Run()
	return pos, err
}

func joinTitle(args []string) string {
	return model.NormalizeTitle(strings.Join(args, " "))
}
