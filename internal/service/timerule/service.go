package timerule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
)

// RuleService manages the lateness/overtime rule configuration and its
// approval lifecycle.
type RuleService struct {
	timerule.LatenessRuleRepository
	timerule.OvertimeRuleRepository
}

func NewRuleService(latenessRepo timerule.LatenessRuleRepository, overtimeRepo timerule.OvertimeRuleRepository) *RuleService {
	return &RuleService{
		LatenessRuleRepository: latenessRepo,
		OvertimeRuleRepository: overtimeRepo,
	}
}

func (s *RuleService) CreateLatenessRule(ctx context.Context, req timerule.CreateLatenessRuleRequest) (timerule.LatenessRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	rule := timerule.LatenessRule{
		CompanyID:               principal.CompanyID,
		Name:                    req.Name,
		Description:             req.Description,
		GracePeriodMinutes:      req.GracePeriodMinutes,
		DeductionPerMinute:      req.DeductionPerMinute,
		RoundingIntervalMinutes: req.RoundingIntervalMinutes,
		RoundingStrategy:        timerule.RoundingStrategy(req.RoundingStrategy),
		Active:                  true,
		Status:                  timerule.StatusDraft,
	}

	created, err := s.LatenessRuleRepository.Create(ctx, rule)
	if err != nil {
		return timerule.LatenessRuleResponse{}, fmt.Errorf("failed to create lateness rule: %w", err)
	}

	return mapLatenessRule(created), nil
}

// UpdateLatenessRule edits a rule. Editing an approved rule resets it to
// draft so it must be re-approved before taking payroll effect again.
func (s *RuleService) UpdateLatenessRule(ctx context.Context, req timerule.UpdateLatenessRuleRequest) (timerule.LatenessRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	rule, err := s.LatenessRuleRepository.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.GracePeriodMinutes != nil {
		rule.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if req.DeductionPerMinute != nil {
		rule.DeductionPerMinute = *req.DeductionPerMinute
	}
	if req.RoundingIntervalMinutes != nil {
		rule.RoundingIntervalMinutes = *req.RoundingIntervalMinutes
	}
	if req.RoundingStrategy != nil {
		rule.RoundingStrategy = timerule.RoundingStrategy(*req.RoundingStrategy)
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}

	// Any edit invalidates a prior approval.
	if rule.Status == timerule.StatusApproved {
		rule.Status = timerule.StatusDraft
		rule.ApprovedBy = nil
		rule.ApprovedAt = nil
		slog.Info("Approved lateness rule edited, approval reset",
			"rule_id", rule.ID, "edited_by", principal.UserID)
	}

	if err := s.LatenessRuleRepository.Update(ctx, rule); err != nil {
		return timerule.LatenessRuleResponse{}, fmt.Errorf("failed to update lateness rule: %w", err)
	}

	return mapLatenessRule(rule), nil
}

func (s *RuleService) ApproveLatenessRule(ctx context.Context, id string) (timerule.LatenessRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	rule, err := s.LatenessRuleRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	if rule.Status == timerule.StatusApproved {
		return timerule.LatenessRuleResponse{}, timerule.ErrRuleAlreadyApproved
	}

	now := time.Now()
	rule.Status = timerule.StatusApproved
	rule.ApprovedBy = &principal.UserID
	rule.ApprovedAt = &now

	if err := s.LatenessRuleRepository.Update(ctx, rule); err != nil {
		return timerule.LatenessRuleResponse{}, fmt.Errorf("failed to approve lateness rule: %w", err)
	}

	return mapLatenessRule(rule), nil
}

func (s *RuleService) RejectLatenessRule(ctx context.Context, id string) (timerule.LatenessRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	rule, err := s.LatenessRuleRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return timerule.LatenessRuleResponse{}, err
	}

	rule.Status = timerule.StatusRejected
	rule.ApprovedBy = nil
	rule.ApprovedAt = nil

	if err := s.LatenessRuleRepository.Update(ctx, rule); err != nil {
		return timerule.LatenessRuleResponse{}, fmt.Errorf("failed to reject lateness rule: %w", err)
	}

	return mapLatenessRule(rule), nil
}

func (s *RuleService) ListLatenessRules(ctx context.Context) ([]timerule.LatenessRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := s.LatenessRuleRepository.List(ctx, principal.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lateness rules: %w", err)
	}

	responses := make([]timerule.LatenessRuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, mapLatenessRule(r))
	}
	return responses, nil
}

func (s *RuleService) CreateOvertimeRule(ctx context.Context, req timerule.CreateOvertimeRuleRequest) (timerule.OvertimeRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	rule := timerule.OvertimeRule{
		CompanyID:          principal.CompanyID,
		Name:               req.Name,
		Description:        req.Description,
		MinOvertimeMinutes: req.MinOvertimeMinutes,
		RatePerMinute:      req.RatePerMinute,
		BeforeShiftAllowed: req.BeforeShiftAllowed,
		RequiresApproval:   req.RequiresApproval,
		Active:             true,
		Status:             timerule.StatusDraft,
	}

	created, err := s.OvertimeRuleRepository.Create(ctx, rule)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, fmt.Errorf("failed to create overtime rule: %w", err)
	}

	return mapOvertimeRule(created), nil
}

func (s *RuleService) UpdateOvertimeRule(ctx context.Context, req timerule.UpdateOvertimeRuleRequest) (timerule.OvertimeRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	rule, err := s.OvertimeRuleRepository.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.MinOvertimeMinutes != nil {
		rule.MinOvertimeMinutes = *req.MinOvertimeMinutes
	}
	if req.RatePerMinute != nil {
		rule.RatePerMinute = *req.RatePerMinute
	}
	if req.BeforeShiftAllowed != nil {
		rule.BeforeShiftAllowed = *req.BeforeShiftAllowed
	}
	if req.RequiresApproval != nil {
		rule.RequiresApproval = *req.RequiresApproval
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}

	// Any edit invalidates a prior approval.
	if rule.Status == timerule.StatusApproved {
		rule.Status = timerule.StatusDraft
		rule.ApprovedBy = nil
		rule.ApprovedAt = nil
		slog.Info("Approved overtime rule edited, approval reset",
			"rule_id", rule.ID, "edited_by", principal.UserID)
	}

	if err := s.OvertimeRuleRepository.Update(ctx, rule); err != nil {
		return timerule.OvertimeRuleResponse{}, fmt.Errorf("failed to update overtime rule: %w", err)
	}

	return mapOvertimeRule(rule), nil
}

func (s *RuleService) ApproveOvertimeRule(ctx context.Context, id string) (timerule.OvertimeRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	rule, err := s.OvertimeRuleRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	if rule.Status == timerule.StatusApproved {
		return timerule.OvertimeRuleResponse{}, timerule.ErrRuleAlreadyApproved
	}

	now := time.Now()
	rule.Status = timerule.StatusApproved
	rule.ApprovedBy = &principal.UserID
	rule.ApprovedAt = &now

	if err := s.OvertimeRuleRepository.Update(ctx, rule); err != nil {
		return timerule.OvertimeRuleResponse{}, fmt.Errorf("failed to approve overtime rule: %w", err)
	}

	return mapOvertimeRule(rule), nil
}

func (s *RuleService) RejectOvertimeRule(ctx context.Context, id string) (timerule.OvertimeRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	rule, err := s.OvertimeRuleRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return timerule.OvertimeRuleResponse{}, err
	}

	rule.Status = timerule.StatusRejected
	rule.ApprovedBy = nil
	rule.ApprovedAt = nil

	if err := s.OvertimeRuleRepository.Update(ctx, rule); err != nil {
		return timerule.OvertimeRuleResponse{}, fmt.Errorf("failed to reject overtime rule: %w", err)
	}

	return mapOvertimeRule(rule), nil
}

func (s *RuleService) ListOvertimeRules(ctx context.Context) ([]timerule.OvertimeRuleResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := s.OvertimeRuleRepository.List(ctx, principal.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime rules: %w", err)
	}

	responses := make([]timerule.OvertimeRuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, mapOvertimeRule(r))
	}
	return responses, nil
}

func mapLatenessRule(r timerule.LatenessRule) timerule.LatenessRuleResponse {
	return timerule.LatenessRuleResponse{
		ID:                      r.ID,
		Name:                    r.Name,
		Description:             r.Description,
		GracePeriodMinutes:      r.GracePeriodMinutes,
		DeductionPerMinute:      r.DeductionPerMinute,
		RoundingIntervalMinutes: r.RoundingIntervalMinutes,
		RoundingStrategy:        string(r.RoundingStrategy),
		Active:                  r.Active,
		Status:                  string(r.Status),
		ApprovedBy:              r.ApprovedBy,
	}
}

func mapOvertimeRule(r timerule.OvertimeRule) timerule.OvertimeRuleResponse {
	return timerule.OvertimeRuleResponse{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		MinOvertimeMinutes: r.MinOvertimeMinutes,
		RatePerMinute:      r.RatePerMinute,
		BeforeShiftAllowed: r.BeforeShiftAllowed,
		RequiresApproval:   r.RequiresApproval,
		Active:             r.Active,
		Status:             string(r.Status),
		ApprovedBy:         r.ApprovedBy,
	}
}
