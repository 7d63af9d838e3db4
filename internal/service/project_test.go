package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/store"
)

func newTestProjectService(t *testing.T, emails ...string) *ProjectService {
	t.Helper()
	st := store.NewMemory()
	for _, email := range emails {
		_, err := st.AddUser(context.Background(), model.User{Email: email, Password: "h"})
		require.NoError(t, err)
	}
	return NewProjectService(st)
}

func weddingProject() model.Project {
	return model.Project{
		ClientName:    "Smith Wedding",
		Date:          time.Date(2024, 10, 26, 0, 0, 0, 0, time.UTC),
		Location:      "Central Park",
		Photographer:  "Jane",
		Status:        model.StatusPending,
		Stage:         model.StageShooting,
		Income:        1000,
		Expenses:      200,
		PaymentStatus: model.PaymentUnpaid,
		Description:   "Full-day wedding coverage.",
	}
}

func TestCreate_AndList(t *testing.T) {
	svc := newTestProjectService(t, "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "a@x.com", weddingProject())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.GalleryImages)

	projects, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Smith Wedding", projects[0].ClientName)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestProjectService(t, "a@x.com")
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*model.Project)
		wantErr error
	}{
		{"missing client name", func(p *model.Project) { p.ClientName = "" }, ErrClientNameRequired},
		{"bad status", func(p *model.Project) { p.Status = "Done" }, ErrInvalidStatus},
		{"bad stage", func(p *model.Project) { p.Stage = "Retouch" }, ErrInvalidStage},
		{"bad payment status", func(p *model.Project) { p.PaymentStatus = "Overdue" }, ErrInvalidPayment},
		{"negative income", func(p *model.Project) { p.Income = -1 }, ErrNegativeAmount},
		{"negative expenses", func(p *model.Project) { p.Expenses = -50 }, ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := weddingProject()
			tt.mutate(&p)
			_, err := svc.Create(ctx, "a@x.com", p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetStatus_ThenPublicPortfolio(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	_, err := st.AddUser(ctx, model.User{
		Email:         "a@x.com",
		Password:      "secret-hash",
		PortfolioSlug: "jane-portfolio",
	})
	require.NoError(t, err)
	svc := NewProjectService(st)

	created, err := svc.Create(ctx, "a@x.com", weddingProject())
	require.NoError(t, err)

	// Not completed yet: the public portfolio is empty.
	portfolio, err := svc.PublicPortfolio(ctx, "jane-portfolio")
	require.NoError(t, err)
	assert.Empty(t, portfolio.Projects)

	_, err = svc.SetStatus(ctx, "a@x.com", created.ID, model.StatusCompleted)
	require.NoError(t, err)

	portfolio, err = svc.PublicPortfolio(ctx, "jane-portfolio")
	require.NoError(t, err)
	require.Len(t, portfolio.Projects, 1)
	assert.Equal(t, created.ID, portfolio.Projects[0].ID)
	assert.Equal(t, model.StatusCompleted, portfolio.Projects[0].Status)
	assert.Empty(t, portfolio.User.Password)
}

func TestSetStatus_Errors(t *testing.T) {
	svc := newTestProjectService(t, "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "a@x.com", weddingProject())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, "a@x.com", created.ID, "Done")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.SetStatus(ctx, "a@x.com", "no-such-id", model.StatusCompleted)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestPublicPortfolio_UnknownSlug(t *testing.T) {
	svc := newTestProjectService(t, "a@x.com")

	_, err := svc.PublicPortfolio(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendGalleryImage_Order(t *testing.T) {
	svc := newTestProjectService(t, "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "a@x.com", weddingProject())
	require.NoError(t, err)

	_, err = svc.AppendGalleryImage(ctx, "a@x.com", created.ID, "img1")
	require.NoError(t, err)
	updated, err := svc.AppendGalleryImage(ctx, "a@x.com", created.ID, "img2")
	require.NoError(t, err)

	assert.Equal(t, []string{"img1", "img2"}, updated.GalleryImages)
}

func TestImport_ReplacesOwnSetOnly(t *testing.T) {
	svc := newTestProjectService(t, "a@x.com", "b@x.com")
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@x.com", weddingProject())
	require.NoError(t, err)
	other, err := svc.Create(ctx, "b@x.com", weddingProject())
	require.NoError(t, err)

	restored := weddingProject()
	restored.ID = "restored-1"
	require.NoError(t, svc.Import(ctx, "a@x.com", []model.Project{restored}))

	listA, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, "restored-1", listA[0].ID)

	listB, err := svc.List(ctx, "b@x.com")
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, other.ID, listB[0].ID)
}

func TestMatchesFilter(t *testing.T) {
	date := time.Date(2024, 10, 26, 14, 30, 0, 0, time.UTC)
	project := model.Project{
		ClientName:   "Smith Wedding",
		Photographer: "Jane Doe",
		Location:     "Central Park",
		Status:       model.StatusPending,
		Date:         date,
	}

	morning := time.Date(2024, 10, 26, 0, 0, 0, 0, time.UTC)
	otherDay := time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches", Filter{}, true},
		{"search client name case-insensitive", Filter{Search: "smith"}, true},
		{"search photographer", Filter{Search: "JANE"}, true},
		{"search location substring", Filter{Search: "central"}, true},
		{"search miss", Filter{Search: "johnson"}, false},
		{"status match", Filter{Status: "Pending"}, true},
		{"status all", Filter{Status: "all"}, true},
		{"status miss", Filter{Status: "Completed"}, false},
		{"date match ignores time of day", Filter{Date: &morning}, true},
		{"date miss", Filter{Date: &otherDay}, false},
		{"all predicates AND together", Filter{Search: "smith", Status: "Pending", Date: &morning}, true},
		{"one failing predicate rejects", Filter{Search: "smith", Status: "Completed", Date: &morning}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilter(project, tt.filter))
		})
	}
}

func TestSummarizeRevenue(t *testing.T) {
	projects := []model.Project{
		{Income: 1000, Expenses: 200},
		{Income: 500, Expenses: 150},
	}

	sum := SummarizeRevenue(projects)
	assert.Equal(t, 1500.0, sum.TotalIncome)
	assert.Equal(t, 350.0, sum.TotalExpenses)
	assert.Equal(t, 1150.0, sum.Profit)

	assert.Equal(t, RevenueSummary{}, SummarizeRevenue(nil))
}

func TestGroupByStatus(t *testing.T) {
	projects := []model.Project{
		{ID: "1", Status: model.StatusPending},
		{ID: "2", Status: model.StatusCompleted},
		{ID: "3", Status: model.StatusPending},
	}

	groups := GroupByStatus(projects)
	assert.Len(t, groups[model.StatusPending], 2)
	assert.Len(t, groups[model.StatusInProgress], 0)
	assert.Len(t, groups[model.StatusCompleted], 1)
}

func TestProjectsOnDate(t *testing.T) {
	day := time.Date(2024, 10, 26, 0, 0, 0, 0, time.UTC)
	projects := []model.Project{
		{ID: "1", Date: time.Date(2024, 10, 26, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Date: time.Date(2024, 10, 27, 9, 0, 0, 0, time.UTC)},
	}

	matched := ProjectsOnDate(projects, day)
	require.Len(t, matched, 1)
	assert.Equal(t, "1", matched[0].ID)
}
