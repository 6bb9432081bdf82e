package mocks

import (
	"github.com/mcoot/musicbingo/internal/dependencies/random"
)

// MockRandom is a scripted implementation of Random for testing.
// Once the Intn queue is empty it returns Fallback (clamped to [0, n)).
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// Fallback is returned by Intn when the queue is exhausted
	Fallback int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	calls int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or Fallback if none remaining
func (r *MockRandom) Intn(n int) int {
	r.calls++
	result := r.Fallback
	if r.intnIndex < len(r.IntnResults) {
		result = r.IntnResults[r.intnIndex]
		r.intnIndex++
	}
	if n <= 0 || result < 0 {
		return 0
	}
	if result >= n {
		return n - 1
	}
	return result
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// IntnCalls returns how many times Intn has been called
func (r *MockRandom) IntnCalls() int {
	return r.calls
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
	r.calls = 0
}
