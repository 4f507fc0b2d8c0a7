package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseOptions covers the show-options line formats seen in practice:
// bare values, numeric values, quoted values with spaces, and names with
// array indices.
func TestParseOptions(t *testing.T) {
	opts := ParseOptions([]string{
		"automatic-rename on",
		"pane-base-index 1",
		"main-pane-height 24",
		`window-status-format "#I:#W "`,
		`status-left "[#S] "`,
		"",
		"update-environment[0] DISPLAY",
		"mode-keys vi",
		"empty-option",
	})

	assert.Equal(t, "on", opts["automatic-rename"])
	assert.Equal(t, 1, opts["pane-base-index"], "digit-only values become int")
	assert.Equal(t, 24, opts["main-pane-height"])
	assert.Equal(t, "#I:#W ", opts["window-status-format"], "quoted values keep inner spaces")
	assert.Equal(t, "[#S] ", opts["status-left"])
	assert.Equal(t, "DISPLAY", opts["update-environment[0]"])
	assert.Equal(t, "vi", opts["mode-keys"])
	assert.Equal(t, "", opts["empty-option"])
	assert.Len(t, opts, 8, "blank lines are skipped")
}

func TestParseOptions_LargeNumberStaysString(t *testing.T) {
	opts := ParseOptions([]string{"huge 99999999999999999999999"})
	assert.Equal(t, "99999999999999999999999", opts["huge"])
}

func TestParseOptions_SingleQuoted(t *testing.T) {
	opts := ParseOptions([]string{"status-right 'a b'"})
	assert.Equal(t, "a b", opts["status-right"])
}

func TestFormatOptionValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		expect string
	}{
		{"true", true, "on"},
		{"false", false, "off"},
		{"string", "vi", "vi"},
		{"int", 5, "5"},
		{"int64", int64(1 << 40), "1099511627776"},
		{"float", 0.5, "0.5"},
		{"nil", nil, ""},
		{"other", uint8(7), "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatOptionValue(tt.value))
		})
	}
}

func TestOptions_Text(t *testing.T) {
	opts := Options{"pane-base-index": 1, "mode-keys": "vi", "monitor-activity": true}

	assert.Equal(t, "1", opts.Text("pane-base-index"))
	assert.Equal(t, "vi", opts.Text("mode-keys"))
	assert.Equal(t, "on", opts.Text("monitor-activity"))
	assert.Equal(t, "", opts.Text("missing"))
}
