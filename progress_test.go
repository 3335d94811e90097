package tourguide_test

import (
	"testing"

	"github.com/livetemplate/tourguide"
	"github.com/stretchr/testify/assert"
)

func TestProgressFor(t *testing.T) {
	p := tourguide.ProgressFor(1, 4)

	assert.False(t, p.Empty())
	assert.Equal(t, "2 of 4", p.Label)
	assert.Len(t, p.Dots, 4)
	for i, d := range p.Dots {
		assert.Equal(t, i, d.Index)
		assert.Equal(t, i == 1, d.Active)
	}
}

func TestProgressEmptyWithoutSteps(t *testing.T) {
	for _, total := range []int{0, -3} {
		p := tourguide.ProgressFor(0, total)
		assert.True(t, p.Empty())
		assert.Empty(t, p.Dots)
		assert.Empty(t, p.Label)
	}
}
