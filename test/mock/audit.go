// test/mock/audit.go
package mock

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

var _ audit.Service = (*MockAuditService)(nil)

func (m *MockAuditService) Record(ctx context.Context, fact audit.Fact) error {
	args := m.Called(ctx, fact)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, filter audit.Filter) ([]audit.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]audit.AuditLog)
	return logs, args.Error(1)
}

// FactRecorder keeps every fact it is handed, for tests that count facts per mutation.
type FactRecorder struct {
	mu    sync.Mutex
	facts []audit.Fact
	Err   error
}

func (r *FactRecorder) Record(_ context.Context, fact audit.Fact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.facts = append(r.facts, fact)
	return nil
}

func (r *FactRecorder) Facts() []audit.Fact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Fact(nil), r.facts...)
}

func (r *FactRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.facts = nil
}
