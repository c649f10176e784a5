package diag_test

import (
	"testing"

	"github.com/alkime/passthru/internal/diag"
	"github.com/stretchr/testify/assert"
)

func TestLog_AppendOnly(t *testing.T) {
	t.Parallel()

	var l diag.Log
	assert.Zero(t, l.Len())
	assert.Empty(t, l.String())

	l.Append("a", "b")
	l.Append()
	l.Append("c")

	assert.Equal(t, []string{"a", "b", "c"}, l.Lines())
	assert.Equal(t, "a\nb\nc", l.String())
	assert.Equal(t, 3, l.Len())
}

func TestLog_LinesIsACopy(t *testing.T) {
	t.Parallel()

	var l diag.Log
	l.Append("first")

	lines := l.Lines()
	lines[0] = "mutated"

	assert.Equal(t, []string{"first"}, l.Lines())
}
