package main

import (
	"os"
	"strings"

	"lessons-cli/internal/cli"
	"lessons-cli/internal/store"
)

// Persistent flags that take a value, so their value is not mistaken for the
// first positional token.
var valueFlags = map[string]bool{
	"--config":    true,
	"--api":       true,
	"--format":    true,
	"--log-level": true,
}

// rewriteDirectLessonLookupArgs makes `lessons <lesson-id>` behave like
// `lessons show <lesson-id>`. Cobra treats the first positional token as a
// subcommand, so argv is rewritten before parsing.
func rewriteDirectLessonLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	insertShow := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.IsLessonID(argv[i+1]) {
				return insertShow(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if store.IsLessonID(a) {
			return insertShow(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLessonLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
