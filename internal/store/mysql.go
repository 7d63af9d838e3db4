package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/photoflow/photoflow-go/internal/model"
)

// MySQL backs the store with three tables (users, projects, gallery_images)
// joined by cascading foreign keys. The connection pool is bounded; the
// only multi-row write path, ImportProjects, runs inside a transaction.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL opens a bounded connection pool for the given DSN and verifies
// connectivity with a ping.
func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &MySQL{db: db}, nil
}

// EnsureSchema issues the idempotent CREATE TABLE statements.
func (s *MySQL) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (s *MySQL) Close() error { return s.db.Close() }

const userColumns = `email, password, name, company, phone, profileComplete,
	portfolioSlug, profilePictureUrl, bio, website, instagram, twitter, createdAt`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var company, phone, slug, picture, bio, website, instagram, twitter sql.NullString
	err := row.Scan(
		&u.Email, &u.Password, &u.Name, &company, &phone, &u.ProfileComplete,
		&slug, &picture, &bio, &website, &instagram, &twitter, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Company = company.String
	u.Phone = phone.String
	u.PortfolioSlug = slug.String
	u.ProfilePictureURL = picture.String
	u.Bio = bio.String
	u.Website = website.String
	u.Instagram = instagram.String
	u.Twitter = twitter.String
	return &u, nil
}

// nullable maps the empty string to NULL. Optional text columns are stored
// as NULL so the UNIQUE index on portfolioSlug ignores users without one.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *MySQL) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *MySQL) FindUserBySlug(ctx context.Context, slug string) (*model.User, error) {
	if slug == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE portfolioSlug = ?`, slug)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *MySQL) AddUser(ctx context.Context, user model.User) (*model.User, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password, name, company, phone, profileComplete,
			portfolioSlug, profilePictureUrl, bio, website, instagram, twitter)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.Password, user.Name, nullable(user.Company), nullable(user.Phone),
		user.ProfileComplete, nullable(user.PortfolioSlug), nullable(user.ProfilePictureURL),
		nullable(user.Bio), nullable(user.Website), nullable(user.Instagram), nullable(user.Twitter),
	)
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return s.FindUserByEmail(ctx, user.Email)
}

func (s *MySQL) UpdateUser(ctx context.Context, email string, patch model.UserPatch) (*model.User, error) {
	cols, args := patchAssignments(patch)
	if len(cols) == 0 {
		return s.FindUserByEmail(ctx, email)
	}

	args = append(args, email)
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(cols, ", ")+` WHERE email = ?`, args...)
	if err != nil {
		return nil, translateDuplicate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "no such user" from "nothing changed".
		if _, findErr := s.FindUserByEmail(ctx, email); errors.Is(findErr, ErrNotFound) {
			return nil, ErrNotFound
		}
	}
	return s.FindUserByEmail(ctx, email)
}

// patchAssignments renders the non-nil patch fields as SET clauses.
func patchAssignments(patch model.UserPatch) ([]string, []any) {
	var cols []string
	var args []any
	set := func(col string, v any) {
		cols = append(cols, col+" = ?")
		args = append(args, v)
	}
	if patch.Password != nil {
		set("password", *patch.Password)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Company != nil {
		set("company", nullable(*patch.Company))
	}
	if patch.Phone != nil {
		set("phone", nullable(*patch.Phone))
	}
	if patch.ProfileComplete != nil {
		set("profileComplete", *patch.ProfileComplete)
	}
	if patch.PortfolioSlug != nil {
		set("portfolioSlug", nullable(*patch.PortfolioSlug))
	}
	if patch.ProfilePictureURL != nil {
		set("profilePictureUrl", nullable(*patch.ProfilePictureURL))
	}
	if patch.Bio != nil {
		set("bio", nullable(*patch.Bio))
	}
	if patch.Website != nil {
		set("website", nullable(*patch.Website))
	}
	if patch.Instagram != nil {
		set("instagram", nullable(*patch.Instagram))
	}
	if patch.Twitter != nil {
		set("twitter", nullable(*patch.Twitter))
	}
	return cols, args
}

func (s *MySQL) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u.Sanitized())
	}
	return users, rows.Err()
}

const projectColumns = `id, clientName, date, location, photographer, status, stage,
	income, expenses, paymentStatus, description, imageUrl, user_email, createdAt`

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	var location, photographer, description, imageURL sql.NullString
	err := row.Scan(
		&p.ID, &p.ClientName, &p.Date, &location, &photographer, &p.Status, &p.Stage,
		&p.Income, &p.Expenses, &p.PaymentStatus, &description, &imageURL,
		&p.UserEmail, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Location = location.String
	p.Photographer = photographer.String
	p.Description = description.String
	p.ImageURL = imageURL.String
	return &p, nil
}

func (s *MySQL) ListProjects(ctx context.Context, email string) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_email = ? ORDER BY createdAt DESC, id`,
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		gallery, err := s.galleryFor(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].GalleryImages = gallery
	}
	return projects, nil
}

// galleryFor loads a project's images ordered by insertion (row id, which is
// strictly monotonic unlike the second-resolution timestamp).
func (s *MySQL) galleryFor(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT imageUrl FROM gallery_images WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gallery := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		gallery = append(gallery, url)
	}
	return gallery, rows.Err()
}

const insertProjectQuery = `INSERT INTO projects
	(id, clientName, date, location, photographer, status, stage,
	 income, expenses, paymentStatus, description, imageUrl, user_email)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func projectArgs(p model.Project) []any {
	return []any{
		p.ID, p.ClientName, p.Date, nullable(p.Location), nullable(p.Photographer),
		p.Status, p.Stage, p.Income, p.Expenses, p.PaymentStatus,
		nullable(p.Description), nullable(p.ImageURL), p.UserEmail,
	}
}

func (s *MySQL) AddProject(ctx context.Context, email string, p model.Project) (*model.Project, error) {
	p.ID = uuid.NewString()
	p.UserEmail = email
	p.GalleryImages = []string{}

	if _, err := s.db.ExecContext(ctx, insertProjectQuery, projectArgs(p)...); err != nil {
		return nil, err
	}
	return s.getProject(ctx, email, p.ID)
}

func (s *MySQL) getProject(ctx context.Context, email, projectID string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_email = ?`,
		projectID, email)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.GalleryImages, err = s.galleryFor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *MySQL) UpdateProject(ctx context.Context, email string, p model.Project) (*model.Project, error) {
	// Ownership check first: RowsAffected cannot distinguish a missing row
	// from an update that changed nothing.
	if _, err := s.getProject(ctx, email, p.ID); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE projects SET clientName = ?, date = ?, location = ?, photographer = ?,
			status = ?, stage = ?, income = ?, expenses = ?, paymentStatus = ?,
			description = ?, imageUrl = ?
		 WHERE id = ? AND user_email = ?`,
		p.ClientName, p.Date, nullable(p.Location), nullable(p.Photographer),
		p.Status, p.Stage, p.Income, p.Expenses, p.PaymentStatus,
		nullable(p.Description), nullable(p.ImageURL),
		p.ID, email,
	)
	if err != nil {
		return nil, err
	}
	return s.getProject(ctx, email, p.ID)
}

func (s *MySQL) DeleteProject(ctx context.Context, email, projectID string) (bool, error) {
	// gallery_images rows go with the project via the cascade FK.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND user_email = ?`, projectID, email)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MySQL) AddGalleryImage(ctx context.Context, email, projectID, imageURL string) (*model.Project, error) {
	if _, err := s.getProject(ctx, email, projectID); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gallery_images (project_id, imageUrl) VALUES (?, ?)`,
		projectID, imageURL)
	if err != nil {
		return nil, err
	}
	return s.getProject(ctx, email, projectID)
}

func (s *MySQL) ImportProjects(ctx context.Context, email string, projects []model.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE user_email = ?`, email); err != nil {
		return err
	}
	for _, p := range projects {
		p.UserEmail = email
		if _, err := tx.ExecContext(ctx, insertProjectQuery, projectArgs(p)...); err != nil {
			return err
		}
		for _, url := range p.GalleryImages {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO gallery_images (project_id, imageUrl) VALUES (?, ?)`,
				p.ID, url); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *MySQL) FullBackup(ctx context.Context) (*model.Backup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	backup := &model.Backup{
		Users:    []model.User{},
		Projects: map[string][]model.Project{},
	}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		backup.Users = append(backup.Users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, u := range backup.Users {
		projects, err := s.ListProjects(ctx, u.Email)
		if err != nil {
			return nil, err
		}
		backup.Projects[u.Email] = projects
	}
	return backup, nil
}

// translateDuplicate maps MySQL error 1062 onto the store's duplicate-key
// sentinels, picking the slug sentinel when the violated index is the
// portfolioSlug one.
func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		if strings.Contains(mysqlErr.Message, "portfolioSlug") {
			return ErrDuplicateSlug
		}
		return ErrDuplicateEmail
	}
	return err
}
