package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/store"
)

var (
	ErrClientNameRequired = errors.New("client name is required")
	ErrInvalidStatus      = errors.New("invalid project status")
	ErrInvalidStage       = errors.New("invalid project stage")
	ErrInvalidPayment     = errors.New("invalid payment status")
	ErrNegativeAmount     = errors.New("income and expenses must be non-negative")
	ErrProjectNotFound    = errors.New("project not found")
)

// ProjectService owns the per-user project tracker and the public
// portfolio view. Every operation except PublicPortfolio is scoped to the
// authenticated owner's email; cross-user reads are impossible by
// construction.
type ProjectService struct {
	store store.Store
}

func NewProjectService(st store.Store) *ProjectService {
	return &ProjectService{store: st}
}

func (s *ProjectService) List(ctx context.Context, email string) ([]model.Project, error) {
	return s.store.ListProjects(ctx, email)
}

// Create validates and persists a new project. The store assigns the id
// and starts the gallery empty.
func (s *ProjectService) Create(ctx context.Context, email string, p model.Project) (*model.Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	return s.store.AddProject(ctx, email, p)
}

// Update replaces a project's fields wholesale. The gallery is untouched;
// images only ever arrive through AppendGalleryImage.
func (s *ProjectService) Update(ctx context.Context, email string, p model.Project) (*model.Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProject(ctx, email, p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	return updated, err
}

// SetStatus is a partial update of the workflow status only.
func (s *ProjectService) SetStatus(ctx context.Context, email, projectID string, status model.Status) (*model.Project, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	projects, err := s.store.ListProjects(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ID == projectID {
			p.Status = status
			return s.Update(ctx, email, p)
		}
	}
	return nil, ErrProjectNotFound
}

func (s *ProjectService) Delete(ctx context.Context, email, projectID string) (bool, error) {
	return s.store.DeleteProject(ctx, email, projectID)
}

// AppendGalleryImage adds an image to the end of the project's delivery
// set. Insertion order is the client-visible order.
func (s *ProjectService) AppendGalleryImage(ctx context.Context, email, projectID, imageURL string) (*model.Project, error) {
	p, err := s.store.AddGalleryImage(ctx, email, projectID, imageURL)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

// Import replaces the caller's entire project set, typically to restore a
// personal backup.
func (s *ProjectService) Import(ctx context.Context, email string, projects []model.Project) error {
	for _, p := range projects {
		if err := validateProject(p); err != nil {
			return err
		}
	}
	return s.store.ImportProjects(ctx, email, projects)
}

// PublicPortfolio resolves a portfolio slug to its owner and their
// completed projects. Unauthenticated; the returned user carries no
// password hash.
func (s *ProjectService) PublicPortfolio(ctx context.Context, slug string) (*model.Portfolio, error) {
	user, err := s.store.FindUserBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	completed := []model.Project{}
	for _, p := range projects {
		if p.Status == model.StatusCompleted {
			completed = append(completed, p)
		}
	}
	return &model.Portfolio{User: user.Sanitized(), Projects: completed}, nil
}

func validateProject(p model.Project) error {
	if p.ClientName == "" {
		return ErrClientNameRequired
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if !p.Stage.Valid() {
		return ErrInvalidStage
	}
	if !p.PaymentStatus.Valid() {
		return ErrInvalidPayment
	}
	if p.Income < 0 || p.Expenses < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Filter is the dashboard search criteria. Zero values match everything:
// empty Search, empty (or "all") Status, nil Date.
type Filter struct {
	Search string
	Status string
	Date   *time.Time
}

// MatchesFilter reports whether a project satisfies all three predicates:
// case-insensitive substring over client name, photographer, and location;
// status equality; calendar-date equality ignoring time of day.
func MatchesFilter(p model.Project, f Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.ClientName), needle) &&
			!strings.Contains(strings.ToLower(p.Photographer), needle) &&
			!strings.Contains(strings.ToLower(p.Location), needle) {
			return false
		}
	}
	if f.Status != "" && f.Status != "all" && string(p.Status) != f.Status {
		return false
	}
	if f.Date != nil {
		y1, m1, d1 := p.Date.Date()
		y2, m2, d2 := f.Date.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	return true
}

// FilterProjects applies MatchesFilter across a project list.
func FilterProjects(projects []model.Project, f Filter) []model.Project {
	matched := []model.Project{}
	for _, p := range projects {
		if MatchesFilter(p, f) {
			matched = append(matched, p)
		}
	}
	return matched
}

// RevenueSummary totals income, expenses, and profit across projects.
type RevenueSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Profit        float64 `json:"profit"`
}

func SummarizeRevenue(projects []model.Project) RevenueSummary {
	var sum RevenueSummary
	for _, p := range projects {
		sum.TotalIncome += p.Income
		sum.TotalExpenses += p.Expenses
	}
	sum.Profit = sum.TotalIncome - sum.TotalExpenses
	return sum
}

// GroupByStatus buckets projects into workflow-board columns.
func GroupByStatus(projects []model.Project) map[model.Status][]model.Project {
	groups := map[model.Status][]model.Project{
		model.StatusPending:    {},
		model.StatusInProgress: {},
		model.StatusCompleted:  {},
	}
	for _, p := range projects {
		groups[p.Status] = append(groups[p.Status], p)
	}
	return groups
}

// ProjectsOnDate returns the projects shot on the given calendar day.
func ProjectsOnDate(projects []model.Project, day time.Time) []model.Project {
	return FilterProjects(projects, Filter{Date: &day})
}
