package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/discipline"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
	"github.com/stafflane/timecore-backend-go/internal/handler/http/response"
	disciplinesvc "github.com/stafflane/timecore-backend-go/internal/service/discipline"
)

type DisciplineHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
	Scan(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	ListFlags(w http.ResponseWriter, r *http.Request)
}

type disciplineHandlerImpl struct {
	monitor *disciplinesvc.Monitor
}

func NewDisciplineHandler(monitor *disciplinesvc.Monitor) DisciplineHandler {
	return &disciplineHandlerImpl{
		monitor: monitor,
	}
}

// Check implements DisciplineHandler. It runs the repeated-lateness check
// for a single employee.
func (h *disciplineHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	var req discipline.CheckLatenessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.monitor.CheckRepeatedLateness(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Scan implements DisciplineHandler. It runs the monitor across the
// caller's whole company.
func (h *disciplineHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req discipline.ScanRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	principal, err := user.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.monitor.ScanCompany(r.Context(), principal.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lateness scan completed", result)
}

// Resolve implements DisciplineHandler.
func (h *disciplineHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req discipline.ResolveFlagRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.ID = id

	result, err := h.monitor.ResolveFlag(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Flag resolved successfully", result)
}

// ListFlags implements DisciplineHandler.
func (h *disciplineHandlerImpl) ListFlags(w http.ResponseWriter, r *http.Request) {
	var status *discipline.FlagStatus
	if s := r.URL.Query().Get("status"); s != "" {
		fs := discipline.FlagStatus(s)
		status = &fs
	}

	results, err := h.monitor.ListFlags(r.Context(), status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
