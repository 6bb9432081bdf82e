package factory

import (
	"time"

	"github.com/mcoot/musicbingo/internal/dependencies/mocks"
	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/services/render"
	"github.com/mcoot/musicbingo/internal/storage/memory"
	"github.com/mcoot/musicbingo/internal/testutil"
)

// TestSeed seeds card generation in test apps so grids are reproducible
const TestSeed = 42

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Game IDs come from MockRandom; cards come from a seeded source. Cards are
// rendered on a small plain template to keep tests fast.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	renderer := render.NewPNGRendererFromImage(render.DefaultTemplate(400, 400))

	app, err := newWithDependencies(store, mockClock, mockRandom, random.NewSeeded(TestSeed), renderer, Config{}, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestArtists returns n distinct artist names
func TestArtists(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "Artist " + string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	return out
}
