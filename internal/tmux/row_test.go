package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRow_Accessors(t *testing.T) {
	r := Row{"window_index": "3", "window_active": "1", "window_name": "vim", "window_zoomed_flag": "0"}

	assert.Equal(t, "vim", r.Get("window_name"))
	assert.Equal(t, "", r.Get("missing"))

	n, ok := r.Int("window_index")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = r.Int("window_name")
	assert.False(t, ok, "non-numeric values are not ints")
	_, ok = r.Int("missing")
	assert.False(t, ok)

	assert.True(t, r.Bool("window_active"))
	assert.False(t, r.Bool("window_zoomed_flag"))
	assert.False(t, r.Bool("missing"))
}

// TestRow_Matches verifies that every attribute must match, not only the
// first one checked.
func TestRow_Matches(t *testing.T) {
	r := Row{"session_id": "$1", "window_id": "@2"}

	assert.True(t, r.Matches(nil), "empty attrs match everything")
	assert.True(t, r.Matches(map[string]string{"window_id": "@2"}))
	assert.True(t, r.Matches(map[string]string{"window_id": "@2", "session_id": "$1"}))
	assert.False(t, r.Matches(map[string]string{"window_id": "@2", "session_id": "$9"}))
	assert.False(t, r.Matches(map[string]string{"window_name": ""}), "absent fields never match")
}

func TestWhereAndFindWhere(t *testing.T) {
	rows := []Row{
		{"window_id": "@1", "session_id": "$1"},
		{"window_id": "@2", "session_id": "$2"},
		{"window_id": "@3", "session_id": "$1"},
	}

	matched := Where(rows, map[string]string{"session_id": "$1"})
	assert.Equal(t, []Row{rows[0], rows[2]}, matched, "order is preserved")
	assert.Nil(t, Where(rows, map[string]string{"session_id": "$7"}))

	r, ok := FindWhere(rows, map[string]string{"session_id": "$1"})
	assert.True(t, ok)
	assert.Equal(t, "@1", r.Get("window_id"), "first match wins")

	_, ok = FindWhere(rows, map[string]string{"window_id": "@9"})
	assert.False(t, ok)
}

func TestRow_CloneIsIndependent(t *testing.T) {
	r := Row{"window_name": "a"}
	c := r.clone()
	c["window_name"] = "b"
	assert.Equal(t, "a", r.Get("window_name"))
}
