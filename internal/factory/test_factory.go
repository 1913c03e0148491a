package factory

import (
	"time"

	"github.com/mcoot/donateshop/internal/dependencies/mocks"
	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Direct handles for test control and inspection
	MockClock     *mocks.MockClock
	MemoryStorage *memory.Storage
}

// NewTestApp creates an in-memory App with a mocked clock
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewWithClock(mockClock)

	app := newWithDependencies(store, mockClock, metrics.New(), nil)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MemoryStorage: store,
	}
}
