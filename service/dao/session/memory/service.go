package memory

import (
	"context"
	"sync"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/service/dao"
	"github.com/jlord31/autonomous-agents/service/dao/session"
)

// Service implements an in-memory, thread-safe session store. Sessions are
// created lazily by Ensure; concurrent Ensure calls for the same key observe
// the same instance.
type Service struct {
	sessions map[string]*model.Session
	mux      sync.RWMutex
}

var _ session.Store = (*Service)(nil)

func (s *Service) Save(_ context.Context, aSession *model.Session) error {
	if aSession == nil {
		return dao.ErrNilEntity
	}
	if aSession.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.sessions[aSession.ID] = aSession
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	aSession, ok := s.sessions[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return aSession, nil
}

func (s *Service) Ensure(_ context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	aSession, ok := s.sessions[id]
	s.mux.RUnlock()
	if ok {
		return aSession, nil
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	if aSession, ok = s.sessions[id]; ok {
		return aSession, nil
	}
	aSession = model.NewSession(id)
	s.sessions[id] = aSession
	return aSession, nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Service) Evict(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Service) List(_ context.Context) ([]*model.Session, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*model.Session, 0, len(s.sessions))
	for _, aSession := range s.sessions {
		out = append(out, aSession)
	}
	return out, nil
}

func New() *Service {
	return &Service{sessions: map[string]*model.Session{}}
}
