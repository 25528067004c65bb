package cli

import (
	"fmt"
	"strconv"
	"strings"

	"lessons-cli/internal/model"
	"lessons-cli/internal/ordered"
	"lessons-cli/internal/store"

	"github.com/spf13/cobra"
)

type lessonView struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Title    string `json:"title"`
}

func viewsOf(ls []model.Lesson) []lessonView {
	out := make([]lessonView, 0, len(ls))
	for i, l := range ls {
		out = append(out, lessonView{Position: i + 1, ID: l.ID, Title: l.Title})
	}
	return out
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List lessons in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ls, err := c.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewsOf(ls)})
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <lesson-id|position>",
		Short: "Show one lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ref := strings.TrimSpace(args[0])
			if store.IsLessonID(ref) {
				l, err := c.Get(cmd.Context(), ref)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": l})
			}

			ls, err := c.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := parsePosition(ref, len(ls))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ls[idx]})
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add [title...]",
		Short: "Append a lesson",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := joinTitle(args)
			if title == "" {
				if !isTerminal(cmd.InOrStdin()) {
					return writeErr(cmd, fmt.Errorf("add: %w", errNotInteractive))
				}
				t, err := promptTitle("New lesson", "")
				if err != nil {
					return writeErr(cmd, err)
				}
				title = t
			}

			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := c.Create(cmd.Context(), title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [position] [title...]",
		Short: "Rename the lesson at a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ls, err := c.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := resolvePosition(cmd, ls, args, "Lesson to edit")
			if err != nil {
				return writeErr(cmd, err)
			}

			var title string
			if len(args) > 1 {
				title = joinTitle(args[1:])
			}
			if title == "" {
				if !isTerminal(cmd.InOrStdin()) {
					return writeErr(cmd, fmt.Errorf("edit: %w", errNotInteractive))
				}
				if title, err = promptTitle("Title", ls[idx].Title); err != nil {
					return writeErr(cmd, err)
				}
			}

			l, err := c.Update(cmd.Context(), ls[idx].ID, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm [position]",
		Aliases: []string{"delete"},
		Short:   "Delete the lesson at a position",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ls, err := c.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := resolvePosition(cmd, ls, args, "Lesson to delete")
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.Delete(cmd.Context(), ls[idx].ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": ls[idx].ID, "title": ls[idx].Title}})
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <position> up|down",
		Short: "Move a lesson one step up or down",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}

			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ls, err := c.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := parsePosition(args[0], len(ls))
			if err != nil {
				return writeErr(cmd, err)
			}
			next, ok := ordered.Target(idx, dir, len(ls))
			if !ok {
				return writeErr(cmd, edgeMoveError{pos: idx + 1, dir: string(dir)})
			}
			if err := c.Reorder(cmd.Context(), idx, next); err != nil {
				return writeErr(cmd, err)
			}

			after, err := c.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"from":    idx + 1,
				"to":      next + 1,
				"lessons": viewsOf(after),
			}})
		},
	}
}

// parsePosition turns a 1-based position into an index into a list of n.
func parsePosition(s string, n int) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: want a number from 1", s)
	}
	if pos < 1 || pos > n {
		return 0, errPosition(pos, n)
	}
	return pos - 1, nil
}

// resolvePosition reads the position from args[0] or, on a terminal, asks.
func resolvePosition(cmd *cobra.Command, ls []model.Lesson, args []string, label string) (int, error) {
	if len(args) > 0 {
		return parsePosition(args[0], len(ls))
	}
	if len(ls) == 0 {
		return 0, errPosition(1, 0)
	}
	if !isTerminal(cmd.InOrStdin()) {
		return 0, errNotInteractive
	}
	pos, err := promptLesson(label, ls)
	if err != nil {
		return 0, err
	}
	return parsePosition(strconv.Itoa(pos), len(ls))
}
