// Package store provides the persistence layer behind the application:
// a single CRUD contract over users, projects, and per-project gallery
// images, implemented by three interchangeable engines (in-memory, JSON
// file, MySQL). The engine is chosen once at startup from configuration
// and injected into the service layer; it is never re-resolved per call.
package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/photoflow/photoflow-go/internal/config"
	"github.com/photoflow/photoflow-go/internal/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateSlug  = errors.New("portfolio slug already taken")
)

// Store is the uniform persistence contract implemented by every engine.
//
// Ordering: ListProjects returns newest-first by creation time, each project
// populated with its gallery images in insertion order. Ownership: every
// project-scoped method takes the owner's email and refuses to touch rows
// owned by anyone else.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserBySlug(ctx context.Context, slug string) (*model.User, error)
	AddUser(ctx context.Context, user model.User) (*model.User, error)
	UpdateUser(ctx context.Context, email string, patch model.UserPatch) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	ListProjects(ctx context.Context, email string) ([]model.Project, error)
	AddProject(ctx context.Context, email string, p model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, email string, p model.Project) (*model.Project, error)
	DeleteProject(ctx context.Context, email, projectID string) (bool, error)
	AddGalleryImage(ctx context.Context, email, projectID, imageURL string) (*model.Project, error)
	// ImportProjects replaces the user's entire project set. The MySQL
	// engine runs delete-then-insert in one transaction; the in-memory and
	// JSON-file engines replace the slice in a single guarded write.
	ImportProjects(ctx context.Context, email string, projects []model.Project) error

	// FullBackup dumps everything, password hashes included. Admin use only.
	FullBackup(ctx context.Context) (*model.Backup, error)

	Close() error
}

// Open selects and opens the storage engine for this process: MySQL when
// DB_HOST is configured, the JSON file when DB_FILE is set, in-memory
// otherwise.
func Open(cfg config.Config) (Store, error) {
	switch {
	case cfg.DB.Configured():
		slog.Info("storage engine: mysql", "host", cfg.DB.Host, "database", cfg.DB.Database)
		return OpenMySQL(cfg.DB.DSN())
	case cfg.DBFile != "":
		slog.Info("storage engine: json file", "path", cfg.DBFile)
		return OpenJSONFile(cfg.DBFile)
	default:
		slog.Info("storage engine: in-memory (state is lost on restart)")
		return NewMemory(), nil
	}
}
