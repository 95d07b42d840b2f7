package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/service/dao"
	"github.com/jlord31/autonomous-agents/service/dao/session"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
)

// Service implements a filesystem-backed session store: one JSON document per
// session key. History lookups stay stable for the duration of one route call
// because the router works on the loaded instance and saves it back once.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

var _ session.Store = (*Service)(nil)

// Save persists a session document.
func (s *Service) Save(ctx context.Context, aSession *model.Session) error {
	if aSession == nil {
		return dao.ErrNilEntity
	}
	if aSession.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(aSession)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	filePath := s.sessionPath(aSession.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save session to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a session document.
func (s *Service) Load(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*model.Session, error) {
	filePath := s.sessionPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if session exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	aSession := &model.Session{}
	if err := json.Unmarshal(data, aSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return aSession, nil
}

// Ensure loads the session for the key, creating an empty document on first
// reference.
func (s *Service) Ensure(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	aSession, err := s.load(ctx, id)
	if err == nil {
		return aSession, nil
	}
	if err != dao.ErrNotFound {
		return nil, err
	}

	aSession = model.NewSession(id)
	data, err := json.Marshal(aSession)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err = s.fs.Upload(ctx, s.sessionPath(id), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to create session file: %w", err)
	}
	return aSession, nil
}

// Delete removes a session document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.sessionPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if session exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}

	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Evict removes a session document; unknown keys are ignored.
func (s *Service) Evict(ctx context.Context, id string) error {
	err := s.Delete(ctx, id)
	if err == dao.ErrNotFound {
		return nil
	}
	return err
}

// List returns all sessions under the base path.
func (s *Service) List(ctx context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	var sessions []*model.Session
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			fmt.Printf("Error reading session file %s: %v\n", object.URL(), err)
			continue
		}
		aSession := &model.Session{}
		if err := json.Unmarshal(data, aSession); err != nil {
			fmt.Printf("Error unmarshaling session from %s: %v\n", object.URL(), err)
			continue
		}
		sessions = append(sessions, aSession)
	}
	return sessions, nil
}

// sessionPath returns the file path for a session key.
func (s *Service) sessionPath(id string) string {
	return path.Join(s.basePath, fmt.Sprintf("%s.json", id))
}

// New creates a filesystem session store rooted at basePath.
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fsService := afs.New()

	ctx := context.Background()
	exists, _ := fsService.Exists(ctx, basePath)
	if !exists {
		if err := fsService.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	basePath = url.Normalize(basePath, file.Scheme)

	return &Service{
		basePath: basePath,
		fs:       fsService,
	}, nil
}
