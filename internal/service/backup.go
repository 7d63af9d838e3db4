package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/go-sql-driver/mysql"

	"github.com/photoflow/photoflow-go/internal/config"
	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/store"
)

var (
	// ErrInvalidBackup means the input JSON is malformed: the caller should
	// fix the file, not retry.
	ErrInvalidBackup = errors.New("backup JSON is malformed")
	// ErrImportFailed is the sanitized cover for any storage failure during
	// import. The raw driver error is logged, never surfaced; it can carry
	// hostnames and credentials.
	ErrImportFailed = errors.New("import failed, all changes rolled back")

	ErrConnectionRefused = errors.New("connection refused: check that the database server is running and the host/port are correct")
	ErrAccessDenied      = errors.New("access denied: check the database username and password")
	ErrUnknownDatabase   = errors.New("database not found: check the database name")
	ErrConnectionFailed  = errors.New("could not connect to the database: check your connection details")
)

// BackupService serializes the full dataset to JSON and replays backups
// into a MySQL instance. The migration half works against an explicitly
// supplied connection config, independent of the engine the app itself
// runs on.
type BackupService struct {
	store store.Store
}

func NewBackupService(st store.Store) *BackupService {
	return &BackupService{store: st}
}

// ExportJSON dumps all users and projects as a pretty-printed JSON string.
// The dump includes password hashes; it is for admin backup use only.
func (s *BackupService) ExportJSON(ctx context.Context) (string, error) {
	backup, err := s.store.FullBackup(ctx)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// TestConnection opens and immediately closes a connection, mapping known
// driver failures onto specific user-facing errors.
func (s *BackupService) TestConnection(ctx context.Context, cfg config.DBConfig) error {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return translateConnError(err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return translateConnError(err)
	}
	return nil
}

// CreateSchema idempotently creates the users, projects, and
// gallery_images tables on the target database.
func (s *BackupService) CreateSchema(ctx context.Context, cfg config.DBConfig) error {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return translateConnError(err)
	}
	defer db.Close()

	for _, stmt := range store.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Error("schema creation failed", "error", err)
			return fmt.Errorf("creating tables: %w", translateConnError(err))
		}
	}
	return nil
}

// ImportResult reports how much a backup import touched.
type ImportResult struct {
	Users    int `json:"users"`
	Projects int `json:"projects"`
}

// ImportIntoMySQL parses a backup JSON dump and replays it into the target
// database inside one transaction: users are upserted by email (records
// missing email or password are skipped), projects are upserted by id, and
// each project's gallery rows are replaced wholesale. Any failure rolls
// everything back.
func (s *BackupService) ImportIntoMySQL(ctx context.Context, cfg config.DBConfig, jsonText string) (ImportResult, error) {
	var backup model.Backup
	if err := json.Unmarshal([]byte(jsonText), &backup); err != nil {
		return ImportResult{}, ErrInvalidBackup
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return ImportResult{}, translateConnError(err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, translateConnError(err)
	}
	defer tx.Rollback()

	result, err := replayBackup(ctx, tx, backup)
	if err != nil {
		slog.Error("backup import failed, rolling back", "error", err)
		return ImportResult{}, ErrImportFailed
	}
	if err := tx.Commit(); err != nil {
		slog.Error("backup import commit failed", "error", err)
		return ImportResult{}, ErrImportFailed
	}
	return result, nil
}

func replayBackup(ctx context.Context, tx *sql.Tx, backup model.Backup) (ImportResult, error) {
	var result ImportResult

	for _, u := range backup.Users {
		if u.Email == "" || u.Password == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (email, password, name, company, phone, profileComplete,
				portfolioSlug, profilePictureUrl, bio, website, instagram, twitter)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE
				password = VALUES(password), name = VALUES(name), company = VALUES(company),
				phone = VALUES(phone), profileComplete = VALUES(profileComplete),
				portfolioSlug = VALUES(portfolioSlug), profilePictureUrl = VALUES(profilePictureUrl),
				bio = VALUES(bio), website = VALUES(website),
				instagram = VALUES(instagram), twitter = VALUES(twitter)`,
			u.Email, u.Password, u.Name, nullOnEmpty(u.Company), nullOnEmpty(u.Phone),
			u.ProfileComplete, nullOnEmpty(u.PortfolioSlug), nullOnEmpty(u.ProfilePictureURL),
			nullOnEmpty(u.Bio), nullOnEmpty(u.Website), nullOnEmpty(u.Instagram), nullOnEmpty(u.Twitter),
		)
		if err != nil {
			return result, fmt.Errorf("upserting user %s: %w", u.Email, err)
		}
		result.Users++
	}

	for email, projects := range backup.Projects {
		for _, p := range projects {
			if p.UserEmail == "" {
				p.UserEmail = email
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO projects (id, clientName, date, location, photographer,
					status, stage, income, expenses, paymentStatus, description, imageUrl, user_email)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON DUPLICATE KEY UPDATE
					clientName = VALUES(clientName), date = VALUES(date),
					location = VALUES(location), photographer = VALUES(photographer),
					status = VALUES(status), stage = VALUES(stage),
					income = VALUES(income), expenses = VALUES(expenses),
					paymentStatus = VALUES(paymentStatus), description = VALUES(description),
					imageUrl = VALUES(imageUrl)`,
				p.ID, p.ClientName, p.Date, nullOnEmpty(p.Location), nullOnEmpty(p.Photographer),
				p.Status, p.Stage, p.Income, p.Expenses, p.PaymentStatus,
				nullOnEmpty(p.Description), nullOnEmpty(p.ImageURL), p.UserEmail,
			)
			if err != nil {
				return result, fmt.Errorf("upserting project %s: %w", p.ID, err)
			}

			if len(p.GalleryImages) > 0 {
				if _, err := tx.ExecContext(ctx,
					`DELETE FROM gallery_images WHERE project_id = ?`, p.ID); err != nil {
					return result, fmt.Errorf("clearing gallery for project %s: %w", p.ID, err)
				}
				for _, url := range p.GalleryImages {
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO gallery_images (project_id, imageUrl) VALUES (?, ?)`,
						p.ID, url); err != nil {
						return result, fmt.Errorf("inserting gallery image for project %s: %w", p.ID, err)
					}
				}
			}
			result.Projects++
		}
	}

	return result, nil
}

func nullOnEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// translateConnError maps driver errors onto user-facing messages without
// leaking hostnames or credentials from the raw error text.
func translateConnError(err error) error {
	slog.Error("mysql connection error", "error", err)

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1045: // ER_ACCESS_DENIED_ERROR
			return ErrAccessDenied
		case 1049: // ER_BAD_DB_ERROR
			return ErrUnknownDatabase
		}
		return ErrConnectionFailed
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnectionRefused
	}
	return ErrConnectionFailed
}
