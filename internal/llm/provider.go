// Package llm provides the text generation backend used for summaries and
// question answering.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable marks generation backend failures (transport error, non-200
// response, or timeout). Callers may retry; the request had no side effects.
var ErrUnavailable = errors.New("generation backend unavailable")

// Provider produces a completion for a prompt. Implementations must honor the
// context and bound the call with their own timeout.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
