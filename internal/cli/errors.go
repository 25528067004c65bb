package cli

import (
	"errors"
	"fmt"
)

type positionError struct {
	pos int
	n   int
}

func (e positionError) Error() string {
	if e.n == 0 {
		return fmt.Sprintf("no lesson at position %d: the list is empty", e.pos)
	}
	return fmt.Sprintf("no lesson at position %d (have 1-%d)", e.pos, e.n)
}

func errPosition(pos, n int) error {
	return positionError{pos: pos, n: n}
}

type edgeMoveError struct {
	pos int
	dir string
}

func (e edgeMoveError) Error() string {
	return fmt.Sprintf("lesson %d cannot move %s", e.pos, e.dir)
}

var errNotInteractive = errors.New("missing argument (stdin is not a terminal, so no prompt)")
