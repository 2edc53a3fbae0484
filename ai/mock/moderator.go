package mock

import "context"

// MockModerator is a test double for ai.Moderator.
// It allows custom behavior injection via function fields.
type MockModerator struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, no content is ever flagged.
	ClassifyFunc func(ctx context.Context, text string) (bool, error)

	callCount int
}

// NewMockModerator creates a mock moderator that flags nothing by default.
// Note: returns concrete type to allow behavior injection and assertions.
func NewMockModerator() *MockModerator {
	return &MockModerator{}
}

// Classify reports whether the text violates content policy.
func (m *MockModerator) Classify(ctx context.Context, text string) (bool, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	return false, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockModerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockModerator) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
