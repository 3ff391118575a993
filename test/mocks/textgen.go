package mocks

import (
	"context"
	"sync"

	"github.com/vinverse/gamerlink-engine/internal/textgen"
)

// MockTextGenerator is a canned implementation of textgen.Generator.
type MockTextGenerator struct {
	mu         sync.Mutex
	Commentary *textgen.Commentary
	Err        error
	Calls      []textgen.PlayerContext
}

// GenerateCommentary records the call and returns the canned result.
func (m *MockTextGenerator) GenerateCommentary(ctx context.Context, player textgen.PlayerContext) (*textgen.Commentary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, player)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Commentary, nil
}

// Model returns a fixed model name.
func (m *MockTextGenerator) Model() string {
	return "mock-model"
}
