package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stclare-edu/dtr-backend-go/internal/handler/http/response"
	"github.com/stclare-edu/dtr-backend-go/internal/service/audit"
)

type AuditHandler interface {
	ListOrphans(w http.ResponseWriter, r *http.Request)
	RepairOrphans(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) AuditHandler {
	return &auditHandlerImpl{
		auditService: auditService,
	}
}

// ListOrphans implements AuditHandler.
func (h *auditHandlerImpl) ListOrphans(w http.ResponseWriter, r *http.Request) {
	orphans, err := h.auditService.FindOrphans(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, orphans)
}

// RepairOrphans implements AuditHandler.
func (h *auditHandlerImpl) RepairOrphans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordIDs []string `json:"record_ids"`
	}
	// An empty or absent body repairs every current orphan.
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Failed to decode repair payload", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.auditService.Repair(r.Context(), req.RecordIDs)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Orphaned records repaired", result)
}
