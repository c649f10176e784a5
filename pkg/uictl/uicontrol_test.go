package uictl_test

import (
	"testing"

	"github.com/alkime/passthru/pkg/uictl"
	"github.com/stretchr/testify/assert"
)

func TestDialFunc(t *testing.T) {
	calls := 0
	var d uictl.Dial[float64] = uictl.DialFunc[float64](func() float64 {
		calls++
		return 0.5
	})

	assert.InDelta(t, 0.5, d.Read(), 1e-9)
	assert.InDelta(t, 0.5, d.Read(), 1e-9)
	assert.Equal(t, 2, calls)
}
