package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/dkma-cli/pkg/dontkillmyapp"
)

// --- dontkillmyapp Mock ---

type mockClient struct {
	mock.Mock
}

func (m *mockClient) URL(id string) string {
	return "mock://" + id + ".json"
}

func (m *mockClient) Manufacturer(ctx context.Context, id string) dontkillmyapp.Outcome {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(dontkillmyapp.Outcome)
}
