package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRenderState(t *testing.T) {
	state, err := ParseRenderState("Rendered_Empty")
	require.NoError(t, err)
	assert.Equal(t, RenderStateRenderedEmpty, state)
	assert.True(t, state.IsValid())

	_, err = ParseRenderState("loading")
	assert.ErrorIs(t, err, ErrInvalidRenderState)
	assert.False(t, RenderState("loading").IsValid())

	assert.Equal(t, []string{"pending", "rendered", "rendered_empty", "failed"}, RenderStateNames())
}
