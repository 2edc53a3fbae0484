package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, returns a canned echo response.
	GenerateTextFunc func(ctx context.Context, prompt string) (string, error)

	// GenerateJSONFunc is called by GenerateJSON if set.
	// If nil, returns an empty JSON object.
	GenerateJSONFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: returns concrete type to allow behavior injection and assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateText returns a canned response referencing the prompt.
func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt)
	}

	return "mock response", nil
}

// GenerateJSON returns an empty JSON object by default.
func (m *MockGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.callCount++

	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, systemPrompt, userPrompt)
	}

	return "{}", nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateTextFunc = nil
	m.GenerateJSONFunc = nil
}
