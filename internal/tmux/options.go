package tmux

import (
	"fmt"
	"strconv"
	"strings"
)

// Options maps option names to values as printed by `show-options` /
// `show-window-options`. Values consisting only of digits are coerced to
// int; everything else stays a string.
type Options map[string]any

// Text returns the option value formatted for display, or "" if unset.
func (o Options) Text(name string) string {
	v, ok := o[name]
	if !ok {
		return ""
	}
	return FormatOptionValue(v)
}

// ParseOptions parses `show-options` output. Each line is
// "<name> <value>"; the line is split at the first space only, so values
// containing spaces survive. Double-quoted values (tmux quotes anything
// with spaces or special characters) are unquoted.
func ParseOptions(lines []string) Options {
	opts := make(Options, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, raw, _ := strings.Cut(line, " ")
		opts[name] = coerceOptionValue(unquoteOptionValue(strings.TrimSpace(raw)))
	}
	return opts
}

func unquoteOptionValue(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		if v[0] == '"' {
			if s, err := strconv.Unquote(v); err == nil {
				return s
			}
		}
		return v[1 : len(v)-1]
	}
	return v
}

func coerceOptionValue(v string) any {
	if v == "" {
		return v
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return v
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Too large for int; keep the digits.
		return v
	}
	return n
}

// FormatOptionValue renders a Go value the way tmux expects it on the
// command line: booleans become "on"/"off", numbers are printed in decimal.
func FormatOptionValue(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "on"
		}
		return "off"
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
