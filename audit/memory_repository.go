// api/audit/memory_repository.go
package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps audit logs in process. It backs the memory store mode and tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	logs []AuditLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(ctx context.Context, log AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *MemoryRepository) Query(ctx context.Context, filter Filter) ([]AuditLog, error) {
	r.mu.RLock()
	matched := make([]AuditLog, 0, len(r.logs))
	for _, log := range r.logs {
		if matches(log, filter) {
			matched = append(matched, log)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := filter.offset()
	if start >= len(matched) {
		return []AuditLog{}, nil
	}
	end := start + filter.limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func matches(log AuditLog, f Filter) bool {
	switch {
	case f.Action != "" && log.Action != f.Action:
		return false
	case f.Entity != "" && log.Entity != f.Entity:
		return false
	case f.ActorEmail != "" && log.User.Email != f.ActorEmail:
		return false
	case f.From != nil && log.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && log.CreatedAt.After(*f.To):
		return false
	}
	return true
}
