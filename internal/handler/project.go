package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/photoflow/photoflow-go/internal/extract"
	"github.com/photoflow/photoflow-go/internal/middleware"
	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/service"
)

// ProjectHandler exposes the per-user project tracker over HTTP. Every
// route runs behind the session middleware; the owner's email always comes
// from the verified session, never from the payload.
type ProjectHandler struct {
	service   *service.ProjectService
	extractor extract.Client
}

func NewProjectHandler(svc *service.ProjectService, extractor extract.Client) *ProjectHandler {
	return &ProjectHandler{service: svc, extractor: extractor}
}

// projectPayload is the wire form of a project. Dates arrive as
// YYYY-MM-DD (the shoot date has no meaningful time of day) or RFC 3339.
type projectPayload struct {
	ID            string  `json:"id"`
	ClientName    string  `json:"clientName"`
	Date          string  `json:"date"`
	Location      string  `json:"location"`
	Photographer  string  `json:"photographer"`
	Status        string  `json:"status"`
	Stage         string  `json:"stage"`
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	PaymentStatus string  `json:"paymentStatus"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl"`
}

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

func parseProjectDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}

func (p projectPayload) toModel() (model.Project, error) {
	date, err := parseProjectDate(p.Date)
	if err != nil {
		return model.Project{}, err
	}
	return model.Project{
		ID:            p.ID,
		ClientName:    p.ClientName,
		Date:          date,
		Location:      p.Location,
		Photographer:  p.Photographer,
		Status:        model.Status(p.Status),
		Stage:         model.Stage(p.Stage),
		Income:        p.Income,
		Expenses:      p.Expenses,
		PaymentStatus: model.PaymentStatus(p.PaymentStatus),
		Description:   p.Description,
		ImageURL:      p.ImageURL,
	}, nil
}

func sessionEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return "", false
	}
	return user.Email, true
}

func writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrClientNameRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidStage),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrNegativeAmount),
		errors.Is(err, errBadDate):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

// HandleList handles GET /api/v1/projects.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	projects, err := h.service.List(r.Context(), email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// HandleCreate handles POST /api/v1/projects.
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	var payload projectPayload
	if !decodeJSON(w, r, &payload, 1<<20) {
		return
	}
	project, err := payload.toModel()
	if err != nil {
		writeProjectError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), email, project)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/v1/projects/{id}.
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	var payload projectPayload
	if !decodeJSON(w, r, &payload, 1<<20) {
		return
	}
	payload.ID = chi.URLParam(r, "id")
	project, err := payload.toModel()
	if err != nil {
		writeProjectError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), email, project)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleSetStatus handles PATCH /api/v1/projects/{id}/status.
func (h *ProjectHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	updated, err := h.service.SetStatus(r.Context(), email, chi.URLParam(r, "id"), model.Status(req.Status))
	if err != nil {
		writeProjectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/v1/projects/{id}.
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), email, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse("project not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddGalleryImage handles POST /api/v1/projects/{id}/gallery.
// Gallery payloads may carry inline-encoded image data, hence the larger
// body cap.
func (h *ProjectHandler) HandleAddGalleryImage(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	var req struct {
		ImageURL string `json:"imageUrl"`
	}
	if !decodeJSON(w, r, &req, 10<<20) {
		return
	}
	if req.ImageURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("imageUrl is required"))
		return
	}

	project, err := h.service.AppendGalleryImage(r.Context(), email, chi.URLParam(r, "id"), req.ImageURL)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleImport handles POST /api/v1/projects/import: wholesale replacement
// of the caller's project set from a personal backup.
func (h *ProjectHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	var projects []model.Project
	if !decodeJSON(w, r, &projects, 50<<20) {
		return
	}

	if err := h.service.Import(r.Context(), email, projects); err != nil {
		writeProjectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(projects)})
}

// HandleRevenue handles GET /api/v1/projects/revenue.
func (h *ProjectHandler) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	projects, err := h.service.List(r.Context(), email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, service.SummarizeRevenue(projects))
}

// HandleExtract handles POST /api/v1/projects/extract: forwards a
// free-form description to the extraction collaborator. All returned
// fields are advisory; the date is validated and blanked when unusable.
func (h *ProjectHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionEmail(w, r); !ok {
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	details, err := h.extractor.Extract(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, extract.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse("extraction failed"))
		return
	}

	if details.Date != "" {
		if _, err := extract.ValidateDate(details.Date); err != nil {
			details.Date = ""
		}
	}
	writeJSON(w, http.StatusOK, details)
}
