// Package inference calls hosted text-generation models.
package inference

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrModelLoading means the model is up but not serving yet: HTTP 503 from the hub, or Bedrock
	// not-ready and throttling errors.
	ErrModelLoading = errors.New("model is loading")
	// ErrUnavailable covers non-200 statuses, network failures and unreadable bodies.
	ErrUnavailable = errors.New("inference unavailable")
	// ErrTimeout is the deadline flavour of ErrUnavailable.
	ErrTimeout = fmt.Errorf("%w: timed out", ErrUnavailable)
)

// Parameters are fixed per deployment variant, never taken from the caller.
type Parameters struct {
	MaxNewTokens      int      `json:"max_new_tokens"`
	Temperature       float64  `json:"temperature"`
	TopP              float64  `json:"top_p"`
	DoSample          bool     `json:"do_sample"`
	StopSequences     []string `json:"stop_sequences,omitempty"`
	RepetitionPenalty float64  `json:"repetition_penalty,omitempty"`
	ReturnFullText    *bool    `json:"return_full_text,omitempty"`
}

// Generator produces raw generated text for a prompt. A single attempt is made;
// errors wrap ErrModelLoading or ErrUnavailable.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Parameters) (string, error)
	Name() string
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
