package handler

import (
	"errors"
	"net/http"

	"github.com/photoflow/photoflow-go/internal/config"
	"github.com/photoflow/photoflow-go/internal/middleware"
	"github.com/photoflow/photoflow-go/internal/service"
)

// AdminHandler exposes the backup/migration panel: full JSON export,
// replay into a MySQL instance, connection test, and schema creation. All
// routes run behind SessionAuth plus RequireAdmin.
type AdminHandler struct {
	auth   *service.AuthService
	backup *service.BackupService
}

func NewAdminHandler(auth *service.AuthService, backup *service.BackupService) *AdminHandler {
	return &AdminHandler{auth: auth, backup: backup}
}

// dbConfigPayload is the connection config supplied by the admin UI.
type dbConfigPayload struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

func (p dbConfigPayload) toConfig() config.DBConfig {
	if p.Port == 0 {
		p.Port = 3306
	}
	return config.DBConfig{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		Database: p.Database,
	}
}

// HandleListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	users, err := h.auth.ListUsers(r.Context(), user.Email)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleExport handles GET /api/v1/admin/export: the full dataset as a
// downloadable JSON document.
func (h *AdminHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	dump, err := h.backup.ExportJSON(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="photoflow-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(dump))
}

// importRequest pairs a backup document with the target database config.
type importRequest struct {
	Config dbConfigPayload `json:"config"`
	Data   string          `json:"data"`
}

// HandleImport handles POST /api/v1/admin/import.
func (h *AdminHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !decodeJSON(w, r, &req, 100<<20) {
		return
	}

	result, err := h.backup.ImportIntoMySQL(r.Context(), req.Config.toConfig(), req.Data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		// Connection and import failures are already sanitized by the service.
		writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleTestConnection handles POST /api/v1/admin/db/test.
func (h *AdminHandler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req dbConfigPayload
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	if err := h.backup.TestConnection(r.Context(), req.toConfig()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleCreateSchema handles POST /api/v1/admin/db/schema.
func (h *AdminHandler) HandleCreateSchema(w http.ResponseWriter, r *http.Request) {
	var req dbConfigPayload
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	if err := h.backup.CreateSchema(r.Context(), req.toConfig()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "database tables created"})
}
