package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrozen(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := NewFrozen(start)
	assert.Equal(t, start, clk.Now())

	clk.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clk.Now())

	clk.Set(start)
	assert.Equal(t, start, clk.Now())
}

func TestSystem(t *testing.T) {
	now := NewSystem().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}
