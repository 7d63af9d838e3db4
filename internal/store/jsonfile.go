package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/photoflow/photoflow-go/internal/model"
)

// JSONFile persists the whole dataset as one pretty-printed JSON document,
// read and rewritten in full on every operation. A process-level mutex
// serializes access, so it is safe for a single process only; running two
// processes against the same file loses updates. Use it for small
// single-writer deployments and local development.
type JSONFile struct {
	mu   sync.Mutex
	path string
}

// OpenJSONFile opens the store at path, creating the file with an empty
// dataset if it does not exist yet.
func OpenJSONFile(path string) (*JSONFile, error) {
	s := &JSONFile{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		empty := &model.Backup{Users: []model.User{}, Projects: map[string][]model.Project{}}
		if err := s.write(empty); err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	return s, nil
}

func (s *JSONFile) read() (*model.Backup, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var data model.Backup
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if data.Projects == nil {
		data.Projects = map[string][]model.Project{}
	}
	return &data, nil
}

func (s *JSONFile) write(data *model.Backup) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *JSONFile) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, u := range data.Users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONFile) FindUserBySlug(_ context.Context, slug string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slug == "" {
		return nil, ErrNotFound
	}
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, u := range data.Users {
		if u.PortfolioSlug == slug {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONFile) AddUser(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, u := range data.Users {
		if u.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	data.Users = append(data.Users, user)
	data.Projects[user.Email] = []model.Project{}
	if err := s.write(data); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *JSONFile) UpdateUser(_ context.Context, email string, patch model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range data.Users {
		if data.Users[i].Email == email {
			patch.Apply(&data.Users[i])
			if err := s.write(data); err != nil {
				return nil, err
			}
			u := data.Users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONFile) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	users := make([]model.User, len(data.Users))
	for i, u := range data.Users {
		users[i] = u.Sanitized()
	}
	return users, nil
}

func (s *JSONFile) ListProjects(_ context.Context, email string) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return cloneProjects(data.Projects[email]), nil
}

func (s *JSONFile) AddProject(_ context.Context, email string, p model.Project) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.UserEmail = email
	p.GalleryImages = []string{}
	p.CreatedAt = time.Now()

	data.Projects[email] = append([]model.Project{p}, data.Projects[email]...)
	if err := s.write(data); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *JSONFile) UpdateProject(_ context.Context, email string, p model.Project) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	list := data.Projects[email]
	for i, existing := range list {
		if existing.ID == p.ID {
			p.UserEmail = email
			p.CreatedAt = existing.CreatedAt
			p.GalleryImages = existing.GalleryImages
			list[i] = p
			if err := s.write(data); err != nil {
				return nil, err
			}
			return cloneProject(p), nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONFile) DeleteProject(_ context.Context, email, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	list := data.Projects[email]
	for i, p := range list {
		if p.ID == projectID {
			data.Projects[email] = append(list[:i:i], list[i+1:]...)
			if err := s.write(data); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *JSONFile) AddGalleryImage(_ context.Context, email, projectID, imageURL string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	list := data.Projects[email]
	for i := range list {
		if list[i].ID == projectID {
			list[i].GalleryImages = append(list[i].GalleryImages, imageURL)
			if err := s.write(data); err != nil {
				return nil, err
			}
			return cloneProject(list[i]), nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONFile) ImportProjects(_ context.Context, email string, projects []model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	imported := cloneProjects(projects)
	for i := range imported {
		imported[i].UserEmail = email
	}
	data.Projects[email] = imported
	return s.write(data)
}

func (s *JSONFile) FullBackup(_ context.Context) (*model.Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *JSONFile) Close() error { return nil }
