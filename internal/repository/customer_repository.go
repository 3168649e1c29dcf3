package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Raymond9734/customer-management-backend/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// CustomerRepository defines the interface for customer data access.
// Create and Update enforce email uniqueness themselves and return a
// *models.ValidationError when the email is taken, so a racing writer that
// slipped past ExistsByEmailExcluding is still rejected.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error)
	Update(ctx context.Context, customer *models.Customer) error
	SetActive(ctx context.Context, id int64, active bool) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
	ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error)
	Stats(ctx context.Context) (*models.CustomerStats, error)
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, first_name, last_name, email, phone, is_active, created_at, updated_at`

var orderColumns = map[string]string{
	models.FieldFirstName: "first_name",
	models.FieldLastName:  "last_name",
	models.FieldEmail:     "email",
	"created_at":          "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	return customer, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Create inserts a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.IsActive,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)

	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail()
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// List retrieves customers with filtering, search, ordering and pagination
func (r *customerRepository) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argPos)
		args = append(args, *filter.IsActive)
		argPos++
	}

	if filter.Search != "" {
		where += fmt.Sprintf(
			" AND (first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d OR phone ILIKE $%[1]d)",
			argPos,
		)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argPos++
	}

	var totalCount int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		orderByClause(models.ParseCustomerOrdering(filter.Ordering)) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, totalCount, nil
}

// orderByClause renders sort keys, always ending with id so pages are stable
func orderByClause(keys []models.OrderKey) string {
	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		column, ok := orderColumns[key.Field]
		if !ok {
			continue
		}
		if key.Desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column+" ASC")
		}
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update writes every mutable field and refreshes updated_at
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.IsActive,
		customer.ID,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", customer.ID))
	}
	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail()
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// SetActive updates only is_active and updated_at
func (r *customerRepository) SetActive(ctx context.Context, id int64, active bool) (*models.Customer, error) {
	query := `
		UPDATE customers
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, active, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer status: %w", err)
	}

	return customer, nil
}

// Delete removes a customer
func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}

	return nil
}

// ExistsByEmailExcluding reports whether another customer already uses email.
// Pass excludeID 0 when creating.
func (r *customerRepository) ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE lower(email) = lower($1) AND id <> $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check customer email: %w", err)
	}

	return exists, nil
}

// Stats counts customers by active state
func (r *customerRepository) Stats(ctx context.Context) (*models.CustomerStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active
		FROM customers`

	var stats models.CustomerStats
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalCustomers, &stats.ActiveCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer stats: %w", err)
	}
	stats.InactiveCustomers = stats.TotalCustomers - stats.ActiveCustomers

	return &stats, nil
}
