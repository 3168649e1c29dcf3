package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/customer-management-backend/internal/models"
	"github.com/Raymond9734/customer-management-backend/internal/queue"
	"github.com/Raymond9734/customer-management-backend/internal/repository"
)

// CustomerService handles customer business logic
type CustomerService interface {
	Create(ctx context.Context, input *models.CustomerInput) (*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error)
	Update(ctx context.Context, id int64, input *models.CustomerInput, partial bool) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.CustomerStats, error)
	Activate(ctx context.Context, id int64) (*StatusChangeResult, error)
	Deactivate(ctx context.Context, id int64) (*StatusChangeResult, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	publisher    queue.Publisher
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create validates, normalizes and stores a new customer
func (s *customerService) Create(ctx context.Context, input *models.CustomerInput) (*models.Customer, error) {
	normalized, err := s.validate(ctx, input, models.ModeCreate, 0)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{IsActive: true}
	customer.Apply(normalized)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		s.logger.Error("failed to create customer",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
	)
	s.publish(ctx, models.EventCustomerCreated, customer.ID)

	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// List runs filter, search, order and paginate over the stored customers
func (s *customerService) List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error) {
	filter.PageSize = models.DefaultPageSize
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	customers, totalCount, err := s.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	pagination := models.NewPaginationResult(filter.Page, filter.PageSize, totalCount)
	if !pagination.InRange() {
		return nil, models.ErrNotFoundWithMsg("Invalid page.")
	}

	results := make([]*models.CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		results = append(results, customer.Summary())
	}

	return &CustomerListResult{
		Results:    results,
		Pagination: pagination,
	}, nil
}

// Update re-runs the validation pipeline and stores the changes. With partial
// set, only the fields present in input are touched.
func (s *customerService) Update(ctx context.Context, id int64, input *models.CustomerInput, partial bool) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mode := models.ModeReplace
	if partial {
		mode = models.ModePartial
	}

	normalized, err := s.validate(ctx, input, mode, id)
	if err != nil {
		return nil, err
	}

	customer.Apply(normalized)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) || errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.logger.Info("customer updated",
		slog.Int64("customer_id", id),
		slog.Bool("partial", partial),
	)
	s.publish(ctx, models.EventCustomerUpdated, id)

	return customer, nil
}

// Delete removes a customer
func (s *customerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted",
		slog.Int64("customer_id", id),
	)
	s.publish(ctx, models.EventCustomerDeleted, id)

	return nil
}

// Stats counts all customers at call time
func (s *customerService) Stats(ctx context.Context) (*models.CustomerStats, error) {
	stats, err := s.customerRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer stats: %w", err)
	}

	return stats, nil
}

// Activate marks a customer active. Activating an active customer only
// refreshes updated_at.
func (s *customerService) Activate(ctx context.Context, id int64) (*StatusChangeResult, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate marks a customer inactive. Deactivating an inactive customer
// only refreshes updated_at.
func (s *customerService) Deactivate(ctx context.Context, id int64) (*StatusChangeResult, error) {
	return s.setActive(ctx, id, false)
}

func (s *customerService) setActive(ctx context.Context, id int64, active bool) (*StatusChangeResult, error) {
	customer, err := s.customerRepo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to change customer status",
			slog.Int64("customer_id", id),
			slog.Bool("is_active", active),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to change customer status: %w", err)
	}

	verb, eventType := "deactivated", models.EventCustomerDeactivated
	if active {
		verb, eventType = "activated", models.EventCustomerActivated
	}

	s.logger.Info("customer "+verb,
		slog.Int64("customer_id", id),
	)
	s.publish(ctx, eventType, id)

	return &StatusChangeResult{
		Message:  fmt.Sprintf("Customer %s has been %s.", customer.FullName(), verb),
		Customer: customer.Detail(),
	}, nil
}

// validate runs the field pipeline and the email uniqueness check, returning
// every problem found in a single *models.ValidationError
func (s *customerService) validate(ctx context.Context, input *models.CustomerInput, mode models.WriteMode, excludeID int64) (*models.CustomerInput, error) {
	normalized, verr := input.Normalize(mode)
	if verr == nil {
		verr = models.NewValidationError()
	}

	if normalized.Email != nil {
		taken, err := s.customerRepo.ExistsByEmailExcluding(ctx, *normalized.Email, excludeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if taken {
			verr.Add(models.FieldEmail, models.KindDuplicateValue, "A customer with this email already exists.")
		}
	}

	if !verr.Empty() {
		return nil, verr
	}
	return normalized, nil
}

// publish emits a customer event. A failed publish is logged and never
// fails the committed operation.
func (s *customerService) publish(ctx context.Context, eventType string, customerID int64) {
	if s.publisher == nil {
		return
	}

	event := models.NewCustomerEvent(eventType, customerID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish customer event",
			slog.String("event_type", eventType),
			slog.Int64("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}
}
