package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Raymond9734/customer-management-backend/internal/models"
)

// MemoryCustomerRepository is an in-process CustomerRepository used by tests
// and by STORAGE_DRIVER=memory. The email index is checked under the same lock
// as the write, mirroring the unique index of the PostgreSQL table.
type MemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]*models.Customer
	emails    map[string]int64
	nextID    int64
	now       func() time.Time
}

// NewMemoryCustomerRepository creates an empty in-memory repository
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		customers: make(map[int64]*models.Customer),
		emails:    make(map[string]int64),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for deterministic timestamps in tests
func (m *MemoryCustomerRepository) WithClock(now func() time.Time) *MemoryCustomerRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func copyCustomer(c *models.Customer) *models.Customer {
	cp := *c
	return &cp
}

func notFound(id int64) error {
	return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
}

// Create inserts a new customer
func (m *MemoryCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(customer.Email)
	if _, taken := m.emails[key]; taken {
		return models.ErrDuplicateEmail()
	}

	m.nextID++
	now := m.now()
	customer.ID = m.nextID
	customer.CreatedAt = now
	customer.UpdatedAt = now

	m.customers[customer.ID] = copyCustomer(customer)
	m.emails[key] = customer.ID
	return nil
}

// GetByID retrieves a customer by ID
func (m *MemoryCustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	customer, ok := m.customers[id]
	if !ok {
		return nil, notFound(id)
	}
	return copyCustomer(customer), nil
}

// List filters, searches, sorts and paginates the stored customers
func (m *MemoryCustomerRepository) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	m.mu.RLock()
	filtered := []*models.Customer{}
	for _, c := range m.customers {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !matchesSearch(c, filter.Search) {
			continue
		}
		filtered = append(filtered, copyCustomer(c))
	}
	m.mu.RUnlock()

	sortCustomers(filtered, models.ParseCustomerOrdering(filter.Ordering))

	totalCount := int64(len(filtered))
	offset := models.CalculateOffset(filter.Page, filter.PageSize)

	start := offset
	if start > len(filtered) {
		start = len(filtered)
	}

	end := start + filter.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], totalCount, nil
}

func matchesSearch(c *models.Customer, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{c.FirstName, c.LastName, c.Email, c.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func sortCustomers(customers []*models.Customer, keys []models.OrderKey) {
	sort.SliceStable(customers, func(i, j int) bool {
		a, b := customers[i], customers[j]
		for _, key := range keys {
			cmp := compareField(a, b, key.Field)
			if cmp == 0 {
				continue
			}
			if key.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return a.ID < b.ID
	})
}

func compareField(a, b *models.Customer, field string) int {
	switch field {
	case models.FieldFirstName:
		return strings.Compare(a.FirstName, b.FirstName)
	case models.FieldLastName:
		return strings.Compare(a.LastName, b.LastName)
	case models.FieldEmail:
		return strings.Compare(a.Email, b.Email)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return 0
	}
}

// Update writes every mutable field and refreshes updated_at
func (m *MemoryCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.customers[customer.ID]
	if !ok {
		return notFound(customer.ID)
	}

	oldKey := strings.ToLower(existing.Email)
	newKey := strings.ToLower(customer.Email)
	if owner, taken := m.emails[newKey]; taken && owner != customer.ID {
		return models.ErrDuplicateEmail()
	}

	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = m.now()

	delete(m.emails, oldKey)
	m.emails[newKey] = customer.ID
	m.customers[customer.ID] = copyCustomer(customer)
	return nil
}

// SetActive updates only is_active and updated_at
func (m *MemoryCustomerRepository) SetActive(ctx context.Context, id int64, active bool) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer, ok := m.customers[id]
	if !ok {
		return nil, notFound(id)
	}

	customer.IsActive = active
	customer.UpdatedAt = m.now()
	return copyCustomer(customer), nil
}

// Delete removes a customer
func (m *MemoryCustomerRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer, ok := m.customers[id]
	if !ok {
		return notFound(id)
	}

	delete(m.emails, strings.ToLower(customer.Email))
	delete(m.customers, id)
	return nil
}

// ExistsByEmailExcluding reports whether another customer already uses email
func (m *MemoryCustomerRepository) ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner, taken := m.emails[strings.ToLower(email)]
	return taken && owner != excludeID, nil
}

// Stats counts customers by active state
func (m *MemoryCustomerRepository) Stats(ctx context.Context) (*models.CustomerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &models.CustomerStats{TotalCustomers: int64(len(m.customers))}
	for _, c := range m.customers {
		if c.IsActive {
			stats.ActiveCustomers++
		}
	}
	stats.InactiveCustomers = stats.TotalCustomers - stats.ActiveCustomers

	return stats, nil
}
