// Package session defines the conversation store contract. Implementations
// keep one model.Session per session key; the engine never owns the backing
// state and never evicts on its own.
package session

import (
	"context"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/service/dao"
)

// Store is a keyed session store with lazy creation and explicit eviction.
type Store interface {
	dao.Service[string, model.Session]

	// Ensure returns the session for the given key, creating an empty one on
	// first reference.
	Ensure(ctx context.Context, id string) (*model.Session, error)

	// Evict removes an idle session; evicting an unknown key is not an
	// error.
	Evict(ctx context.Context, id string) error
}
