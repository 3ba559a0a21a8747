package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
)

type Service struct {
	holiday.HolidayRepository
}

func NewService(repo holiday.HolidayRepository) *Service {
	return &Service{HolidayRepository: repo}
}

func (s *Service) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		CompanyID: principal.CompanyID,
		Type:      holiday.HolidayType(req.Type),
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Active:    true,
	})
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return mapHoliday(created), nil
}

func (s *Service) UpdateHoliday(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	h, err := s.HolidayRepository.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	if req.Type != nil {
		h.Type = holiday.HolidayType(*req.Type)
	}
	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return holiday.HolidayResponse{}, fmt.Errorf("invalid start_date: %w", err)
		}
		h.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return holiday.HolidayResponse{}, fmt.Errorf("invalid end_date: %w", err)
		}
		h.EndDate = end
	}
	if req.Active != nil {
		h.Active = *req.Active
	}

	if h.EndDate.Before(h.StartDate) {
		return holiday.HolidayResponse{}, holiday.ErrInvalidRange
	}

	if err := s.HolidayRepository.Update(ctx, h); err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return mapHoliday(h), nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return s.HolidayRepository.Delete(ctx, id, principal.CompanyID)
}

func (s *Service) ListHolidays(ctx context.Context) ([]holiday.HolidayResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	holidays, err := s.HolidayRepository.List(ctx, principal.CompanyID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, mapHoliday(h))
	}
	return responses, nil
}

func mapHoliday(h holiday.Holiday) holiday.HolidayResponse {
	return holiday.HolidayResponse{
		ID:        h.ID,
		Type:      string(h.Type),
		Name:      h.Name,
		StartDate: h.StartDate.Format("2006-01-02"),
		EndDate:   h.EndDate.Format("2006-01-02"),
		Active:    h.Active,
	}
}
