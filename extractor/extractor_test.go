package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	name string
	text string
	err  error
}

func (s *stubStrategy) Name() string {
	return s.name
}

func (s *stubStrategy) Extract(ctx context.Context) (string, error) {
	return s.text, s.err
}

func TestRunFirstSuccessWins(t *testing.T) {
	text, err := Run(
		context.Background(),
		&stubStrategy{name: "first", text: "hello"},
		&stubStrategy{name: "second", text: "never read"},
	)

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestRunFallsThroughOnFailure(t *testing.T) {
	text, err := Run(
		context.Background(),
		&stubStrategy{name: "first", err: errors.New("boom")},
		&stubStrategy{name: "second", text: "   "},
		&stubStrategy{name: "third", text: "recovered"},
	)

	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
}

func TestRunCollectsAllFailures(t *testing.T) {
	_, err := Run(
		context.Background(),
		&stubStrategy{name: "first", err: errors.New("boom")},
		&stubStrategy{name: "second", text: ""},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoText)
	assert.Contains(t, err.Error(), "first: boom")
	assert.Contains(t, err.Error(), "second: produced no text")
}

func TestRunNoStrategies(t *testing.T) {
	_, err := Run(context.Background())
	assert.ErrorIs(t, err, ErrNoText)
}
