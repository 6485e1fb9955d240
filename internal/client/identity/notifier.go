package identity

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
)

// notifier fans identity transitions out to listeners, dropping repeats.
type notifier struct {
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	current   *models.Principal
	announced bool
}

func (n *notifier) OnIdentityChange(fn Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]Listener)
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *notifier) Current() *models.Principal {
	n.mu.Lock()
	defer n.mu.Unlock()
	return clonePrincipal(n.current)
}

func (n *notifier) emit(ctx context.Context, principal *models.Principal) {
	n.mu.Lock()
	if n.announced && sameOwner(n.current, principal) {
		n.mu.Unlock()
		return
	}
	n.announced = true
	n.current = clonePrincipal(principal)
	ls := make([]Listener, 0, len(n.listeners))
	for _, l := range n.listeners {
		ls = append(ls, l)
	}
	n.mu.Unlock()

	for _, l := range ls {
		l(ctx, clonePrincipal(principal))
	}
}

// refresh replaces the current principal's details without notifying
// listeners; the owner does not change.
func (n *notifier) refresh(principal models.Principal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.OwnerID == principal.OwnerID {
		n.current = clonePrincipal(&principal)
	}
}

func sameOwner(a, b *models.Principal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.OwnerID == b.OwnerID
}

func clonePrincipal(p *models.Principal) *models.Principal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
