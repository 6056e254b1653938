package sourcemock

import (
	"context"
	"time"

	"github.com/raterudder/gridmix/pkg/source"
	"github.com/raterudder/gridmix/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockSource struct {
	mock.Mock
}

var _ source.Source = (*MockSource)(nil)

func (m *MockSource) GenerationMix(ctx context.Context, from time.Time) ([]types.Interval, error) {
	args := m.Called(ctx, from)
	if v := args.Get(0); v != nil {
		return v.([]types.Interval), args.Error(1)
	}
	return nil, args.Error(1)
}
