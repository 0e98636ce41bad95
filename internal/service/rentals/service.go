package rentals

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
)

// Service сервис чтения аренд и заявок
type Service struct {
	rentalRepo  RentalRepository
	requestRepo RequestRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса аренд
func NewService(
	rentalRepo RentalRepository,
	requestRepo RequestRepository,
	logger Logger,
) *Service {
	return &Service{
		rentalRepo:  rentalRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// GetByID получает аренду по ID
// Клиент видит только свою аренду, администратор любую
func (s *Service) GetByID(ctx context.Context, req *models.GetRentalRequest) (*models.RentalResponse, error) {
	s.logger.Info("GetByID: fetching rental id=%s for user=%d", req.RentalID, req.CallerID)

	rental, err := s.rentalRepo.GetByID(ctx, req.RentalID)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			s.logger.Warn("GetByID: rental id=%s not found", req.RentalID)
			return nil, ErrRentalNotFound
		}
		s.logger.Error("GetByID: repository error for rental id=%s: %v", req.RentalID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !req.IsAdmin && rental.UserID != req.CallerID {
		s.logger.Warn("GetByID: access denied for user=%d to rental id=%s", req.CallerID, req.RentalID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainRental(rental), nil
}

// ListByUser получает историю аренд клиента, опционально с фильтром по статусу
func (s *Service) ListByUser(ctx context.Context, req *models.ListUserRentalsRequest) (*models.RentalListResponse, error) {
	s.logger.Info("ListByUser: fetching rentals for user=%d, status=%v", req.UserID, req.Status)

	if !req.IsAdmin && req.UserID != req.CallerID {
		s.logger.Warn("ListByUser: access denied for user=%d to rentals of user=%d", req.CallerID, req.UserID)
		return nil, ErrAccessDenied
	}

	var status *domain.RentalStatus
	if req.Status != nil {
		st, err := models.ToDomainRentalStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByUser: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	rentals, err := s.rentalRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}

	if status != nil {
		filtered := make([]*domain.Rental, 0, len(rentals))
		for _, r := range rentals {
			if r.Status == *status {
				filtered = append(filtered, r)
			}
		}
		rentals = filtered
	}

	s.logger.Info("ListByUser: fetched %d rentals for user=%d", len(rentals), req.UserID)
	return models.FromDomainRentalList(rentals), nil
}

// List получает все аренды, опционально с фильтром по статусу
func (s *Service) List(ctx context.Context, status *string) (*models.RentalListResponse, error) {
	s.logger.Info("List: fetching rentals, status=%v", status)

	var domainStatus *domain.RentalStatus
	if status != nil {
		st, err := models.ToDomainRentalStatus(*status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &st
	}

	rentals, err := s.rentalRepo.List(ctx, domainStatus)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRentalList(rentals), nil
}

// GetRequest получает заявку по ID
func (s *Service) GetRequest(ctx context.Context, id string) (*models.RequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			s.logger.Warn("GetRequest: request id=%s not found", id)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("GetRequest: repository error for request id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetRequest - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRequest(req), nil
}

// ListRequests получает заявки, опционально с фильтром по статусу
func (s *Service) ListRequests(ctx context.Context, status *string) (*models.RequestListResponse, error) {
	s.logger.Info("ListRequests: fetching requests, status=%v", status)

	var domainStatus *domain.RequestStatus
	if status != nil {
		st, err := models.ToDomainRequestStatus(*status)
		if err != nil {
			s.logger.Warn("ListRequests: invalid status=%s", *status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &st
	}

	requests, err := s.requestRepo.List(ctx, domainStatus)
	if err != nil {
		s.logger.Error("ListRequests: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRequests - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRequestList(requests), nil
}
