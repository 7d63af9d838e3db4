package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/photoflow/photoflow-go/internal/model"
)

// Memory keeps all state in process memory behind a single lock. Intended
// for development and tests; everything is lost on restart.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]model.User
	projects map[string][]model.Project
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]model.User),
		projects: make(map[string][]model.Project),
	}
}

func (s *Memory) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *Memory) FindUserBySlug(_ context.Context, slug string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if slug == "" {
		return nil, ErrNotFound
	}
	for _, u := range s.users {
		if u.PortfolioSlug == slug {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) AddUser(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return nil, ErrDuplicateEmail
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.Email] = user
	s.projects[user.Email] = nil
	return &user, nil
}

func (s *Memory) UpdateUser(_ context.Context, email string, patch model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&u)
	s.users[email] = u
	return &u, nil
}

func (s *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Sanitized())
	}
	return users, nil
}

func (s *Memory) ListProjects(_ context.Context, email string) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneProjects(s.projects[email]), nil
}

func (s *Memory) AddProject(_ context.Context, email string, p model.Project) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.UserEmail = email
	p.GalleryImages = []string{}
	p.CreatedAt = time.Now()

	// Newest first.
	s.projects[email] = append([]model.Project{p}, s.projects[email]...)
	return &p, nil
}

func (s *Memory) UpdateProject(_ context.Context, email string, p model.Project) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.projects[email]
	for i, existing := range list {
		if existing.ID == p.ID {
			p.UserEmail = email
			p.CreatedAt = existing.CreatedAt
			p.GalleryImages = existing.GalleryImages
			list[i] = p
			return cloneProject(p), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) DeleteProject(_ context.Context, email, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.projects[email]
	for i, p := range list {
		if p.ID == projectID {
			s.projects[email] = append(list[:i:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) AddGalleryImage(_ context.Context, email, projectID, imageURL string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.projects[email]
	for i := range list {
		if list[i].ID == projectID {
			list[i].GalleryImages = append(list[i].GalleryImages, imageURL)
			return cloneProject(list[i]), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) ImportProjects(_ context.Context, email string, projects []model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	imported := cloneProjects(projects)
	for i := range imported {
		imported[i].UserEmail = email
	}
	s.projects[email] = imported
	return nil
}

func (s *Memory) FullBackup(_ context.Context) (*model.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	backup := &model.Backup{
		Users:    make([]model.User, 0, len(s.users)),
		Projects: make(map[string][]model.Project, len(s.projects)),
	}
	for _, u := range s.users {
		backup.Users = append(backup.Users, u)
	}
	for email, list := range s.projects {
		backup.Projects[email] = cloneProjects(list)
	}
	return backup, nil
}

func (s *Memory) Close() error { return nil }

func cloneProject(p model.Project) *model.Project {
	p.GalleryImages = append([]string(nil), p.GalleryImages...)
	if p.GalleryImages == nil {
		p.GalleryImages = []string{}
	}
	return &p
}

func cloneProjects(list []model.Project) []model.Project {
	out := make([]model.Project, len(list))
	for i, p := range list {
		out[i] = *cloneProject(p)
	}
	return out
}
