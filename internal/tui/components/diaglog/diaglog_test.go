package diaglog_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alkime/passthru/internal/diag"
	"github.com/alkime/passthru/internal/tui/components/diaglog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestDiagLog_AppendScrollsToNewest(t *testing.T) {
	t.Parallel()

	m := diaglog.New(nil, 30, 3)
	for i := range 10 {
		m.Append(fmt.Sprintf("line %d", i))
	}

	view := m.View()
	assert.Contains(t, view, "line 9")
	assert.NotContains(t, view, "line 0")
	assert.True(t, m.AtBottom())
	assert.Equal(t, 10, m.Log().Len())
}

func TestDiagLog_PageUpShowsOlderLines(t *testing.T) {
	t.Parallel()

	m := diaglog.New(&diag.Log{}, 30, 3)
	for i := range 10 {
		m.Append(fmt.Sprintf("line %d", i))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})

	assert.False(t, m.AtBottom())
	assert.Contains(t, m.View(), "line 0")
}

func TestDiagLog_SharesBackingLog(t *testing.T) {
	t.Parallel()

	log := &diag.Log{}
	log.Append("existing")

	m := diaglog.New(log, 40, 5)
	assert.Contains(t, m.View(), "existing")

	m.Append("added")
	assert.Equal(t, []string{"existing", "added"}, log.Lines())
}

func TestDiagLog_SetSize(t *testing.T) {
	t.Parallel()

	m := diaglog.New(nil, 10, 2)
	m.Append(strings.Repeat("x", 5))
	m.SetSize(20, 4)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 4)
}
