package timerule

import (
	"context"
)

type LatenessRuleRepository interface {
	Create(ctx context.Context, rule LatenessRule) (LatenessRule, error)
	GetByID(ctx context.Context, id string, companyID string) (LatenessRule, error)
	// GetEffective returns the active approved lateness rule for the
	// company, or nil when none is configured.
	GetEffective(ctx context.Context, companyID string) (*LatenessRule, error)
	List(ctx context.Context, companyID string) ([]LatenessRule, error)
	Update(ctx context.Context, rule LatenessRule) error
	Delete(ctx context.Context, id string, companyID string) error
}

type OvertimeRuleRepository interface {
	Create(ctx context.Context, rule OvertimeRule) (OvertimeRule, error)
	GetByID(ctx context.Context, id string, companyID string) (OvertimeRule, error)
	GetEffective(ctx context.Context, companyID string) (*OvertimeRule, error)
	List(ctx context.Context, companyID string) ([]OvertimeRule, error)
	Update(ctx context.Context, rule OvertimeRule) error
	Delete(ctx context.Context, id string, companyID string) error
}
