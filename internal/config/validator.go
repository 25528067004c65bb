package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func ValidLogLevels() []string { return []string{"DEBUG", "INFO", "WARN", "ERROR"} }

func ValidThemes() []string { return []string{"auto", "light", "dark"} }

// Validate checks the Config and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, ValidationError{Field: "server.addr", Value: c.Server.Addr, Message: "must be host:port"})
	}
	if strings.TrimSpace(c.Server.DBPath) == "" {
		errs = append(errs, ValidationError{Field: "server.db_path", Value: c.Server.DBPath, Message: "must not be empty"})
	}

	if u, err := url.Parse(c.Client.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "client.base_url", Value: c.Client.BaseURL, Message: "must be an http(s) URL"})
	}
	if c.Client.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "client.timeout", Value: c.Client.Timeout, Message: "must be positive"})
	}

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	if !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errs = append(errs, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "must be one of " + strings.Join(ValidThemes(), ", "),
		})
	}
	return errs
}
