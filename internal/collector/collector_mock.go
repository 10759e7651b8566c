package collector

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// MockCollector is a mock implementation of MetricCollector for testing.
type MockCollector struct {
	mock.Mock
}

var _ contract.MetricCollector = &MockCollector{} // Compile-time check

// FetchMeasurement implements the MetricCollector interface.
func (m *MockCollector) FetchMeasurement(ctx context.Context, url string) (*schema.RawMeasurement, error) {
	args := m.Called(ctx, url)
	measurement, _ := args.Get(0).(*schema.RawMeasurement)
	return measurement, args.Error(1)
}
