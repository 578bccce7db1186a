// Package notification is the fire-and-forget notice sink. Notices fan out
// to the users of one tenant; delivery is best effort and never fails the
// request that emitted them.
package notification

import (
	"context"
	"sync"
	"time"

	id "hireflow/pkg/domain"
)

// Notice is one tenant-scoped notification.
type Notice struct {
	TenantID    id.TenantID    `json:"tenant_id"`
	ApplicantID id.ApplicantID `json:"applicant_id"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	EmittedAt   time.Time      `json:"emitted_at"`
}

// Notifier accepts notices for fan-out to users of a tenant.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// InMemory collects notices for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	notices []Notice
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (n *InMemory) Notify(_ context.Context, notice Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

// Notices returns a copy of everything emitted so far.
func (n *InMemory) Notices() []Notice {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]Notice{}, n.notices...)
}

// ByTenant returns notices for one tenant in emission order.
func (n *InMemory) ByTenant(tenantID id.TenantID) []Notice {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var result []Notice
	for _, notice := range n.notices {
		if notice.TenantID == tenantID {
			result = append(result, notice)
		}
	}
	return result
}
