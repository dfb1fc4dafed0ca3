package provider

import (
	"context"
	"sync"
)

// Mock is an offline provider for tests and the demo command. It
// returns a canned reply, or echoes the prompt when none is set, and
// records every prompt it sees.
type Mock struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func NewMock() *Mock {
	return &Mock{}
}

// SetReply fixes the completion returned by Complete.
func (m *Mock) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// SetError makes every Complete call fail with err.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Prompts returns a copy of the prompts seen so far.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if m.reply == "" {
		return prompt, nil
	}
	return m.reply, nil
}

func (m *Mock) Name() string { return "mock" }
