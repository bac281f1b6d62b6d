package svctable

import (
	"sort"

	"github.com/gostdlib/base/concurrency/sync"
)

// Resolver is the read side of a Table a session.Manager consults to turn a
// service id into a dial target.
type Resolver interface {
	// Get returns the service registered under id, or ok=false.
	Get(id uint16) (Service, bool)
}

// Table is the Service Table: the set of locally reachable endpoints the
// gateway advertises to the Arrow peer. It is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	services map[uint16]Service
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{services: make(map[uint16]Service)}
}

// Set registers or replaces a service under its own id.
func (t *Table) Set(svc Service) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.services[svc.ID()] = svc
}

// Remove drops the service registered under id, if any.
func (t *Table) Remove(id uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.services, id)
}

// Get returns the service registered under id. Id 0 always resolves to the
// Control Protocol service, regardless of what has been Set, since the
// Control Protocol service is synthesized rather than stored.
func (t *Table) Get(id uint16) (Service, bool) {
	if id == 0 {
		return Control(), true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	svc, ok := t.services[id]
	return svc, ok
}

// Len returns the number of stored services, not counting the synthesized
// Control Protocol entry.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.services)
}

// Services returns the stored services ordered by id, not including the
// synthesized Control Protocol entry.
func (t *Table) Services() []Service {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Service, 0, len(t.services))
	for _, svc := range t.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Encode appends the wire encoding of every stored service, ordered by id,
// followed by the synthesized Control Protocol service as the final entry.
func (t *Table) Encode(buf []byte) []byte {
	for _, svc := range t.Services() {
		buf = svc.Encode(buf)
	}
	return Control().Encode(buf)
}

// EncodedLen returns the total encoded length Encode will produce.
func (t *Table) EncodedLen() int {
	n := Control().Len()
	for _, svc := range t.Services() {
		n += svc.Len()
	}
	return n
}
