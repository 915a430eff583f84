package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggester_Suggest(t *testing.T) {
	model := &fakeModel{reply: "  \"Transport\"\n"}
	s := NewSuggester(model, time.Second)

	got, err := s.Suggest(context.Background(), "GRAB RIDE,UOB,...", []string{"food", "transport"})
	require.NoError(t, err)

	assert.Equal(t, "Transport", got)
	assert.Contains(t, model.got.Prompt, "food, transport")
	assert.Contains(t, model.got.Prompt, "GRAB RIDE")
	assert.Empty(t, model.got.Schema)
}

func TestSuggester_Failures(t *testing.T) {
	_, err := NewSuggester(nil, time.Second).Suggest(context.Background(), "x", []string{"food"})
	assert.ErrorIs(t, err, ErrUnavailable)

	boom := errors.New("unreachable")
	_, err = NewSuggester(&fakeModel{err: boom}, time.Second).Suggest(context.Background(), "x", []string{"food"})
	assert.ErrorIs(t, err, boom)

	_, err = NewSuggester(&fakeModel{block: true}, 10*time.Millisecond).Suggest(context.Background(), "x", []string{"food"})
	assert.ErrorIs(t, err, ErrTimeout)
}
