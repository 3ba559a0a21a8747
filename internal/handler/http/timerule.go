package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/handler/http/response"
	timerulesvc "github.com/stafflane/timecore-backend-go/internal/service/timerule"
)

type TimeRuleHandler interface {
	CreateLatenessRule(w http.ResponseWriter, r *http.Request)
	UpdateLatenessRule(w http.ResponseWriter, r *http.Request)
	ApproveLatenessRule(w http.ResponseWriter, r *http.Request)
	RejectLatenessRule(w http.ResponseWriter, r *http.Request)
	ListLatenessRules(w http.ResponseWriter, r *http.Request)
	CreateOvertimeRule(w http.ResponseWriter, r *http.Request)
	UpdateOvertimeRule(w http.ResponseWriter, r *http.Request)
	ApproveOvertimeRule(w http.ResponseWriter, r *http.Request)
	RejectOvertimeRule(w http.ResponseWriter, r *http.Request)
	ListOvertimeRules(w http.ResponseWriter, r *http.Request)
}

type timeRuleHandlerImpl struct {
	ruleService *timerulesvc.RuleService
}

func NewTimeRuleHandler(ruleService *timerulesvc.RuleService) TimeRuleHandler {
	return &timeRuleHandlerImpl{
		ruleService: ruleService,
	}
}

// CreateLatenessRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) CreateLatenessRule(w http.ResponseWriter, r *http.Request) {
	var req timerule.CreateLatenessRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.ruleService.CreateLatenessRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Lateness rule created successfully", result)
}

// UpdateLatenessRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) UpdateLatenessRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req timerule.UpdateLatenessRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.ruleService.UpdateLatenessRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lateness rule updated successfully", result)
}

// ApproveLatenessRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) ApproveLatenessRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.ruleService.ApproveLatenessRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lateness rule approved successfully", result)
}

// RejectLatenessRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) RejectLatenessRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.ruleService.RejectLatenessRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lateness rule rejected", result)
}

// ListLatenessRules implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) ListLatenessRules(w http.ResponseWriter, r *http.Request) {
	results, err := h.ruleService.ListLatenessRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// CreateOvertimeRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) CreateOvertimeRule(w http.ResponseWriter, r *http.Request) {
	var req timerule.CreateOvertimeRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.ruleService.CreateOvertimeRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime rule created successfully", result)
}

// UpdateOvertimeRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) UpdateOvertimeRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req timerule.UpdateOvertimeRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.ruleService.UpdateOvertimeRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rule updated successfully", result)
}

// ApproveOvertimeRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) ApproveOvertimeRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.ruleService.ApproveOvertimeRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rule approved successfully", result)
}

// RejectOvertimeRule implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) RejectOvertimeRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.ruleService.RejectOvertimeRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rule rejected successfully", result)
}

// ListOvertimeRules implements TimeRuleHandler.
func (h *timeRuleHandlerImpl) ListOvertimeRules(w http.ResponseWriter, r *http.Request) {
	results, err := h.ruleService.ListOvertimeRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
