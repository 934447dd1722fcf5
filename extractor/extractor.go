package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoText marks an extraction in which every strategy failed to
// produce text. The wrapped message lists each strategy's reason.
var ErrNoText = errors.New("extraction failed")

// Strategy is one way to obtain text from a source. A strategy returning
// empty text counts as a failure.
type Strategy interface {
	Name() string
	Extract(ctx context.Context) (string, error)
}

// Run tries strategies in order and returns the first text produced,
// collecting every failure reason along the way.
func Run(ctx context.Context, strategies ...Strategy) (string, error) {
	var failures []string

	for _, strategy := range strategies {
		text, err := strategy.Extract(ctx)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", strategy.Name(), err))
			continue
		}
		if len(strings.TrimSpace(text)) == 0 {
			failures = append(failures, fmt.Sprintf("%s: produced no text", strategy.Name()))
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: %s", ErrNoText, strings.Join(failures, "; "))
}

// Runner executes an external command and returns its stdout. The
// default shells out; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

func NewRunner() Runner {
	return execRunner{}
}
