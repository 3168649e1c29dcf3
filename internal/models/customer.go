package models

import (
	"fmt"
	"strings"
	"time"
)

// Field names as they appear on the wire and in validation errors
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

// Customer represents a customer in the system
type Customer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerDetail is the full representation returned by retrieve/create/update
type CustomerDetail struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerSummary is the reduced projection used by list and search
type CustomerSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

// CustomerStats holds aggregate counts over all customers
type CustomerStats struct {
	TotalCustomers    int64 `json:"total_customers"`
	ActiveCustomers   int64 `json:"active_customers"`
	InactiveCustomers int64 `json:"inactive_customers"`
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	IsActive *bool
	Search   string
	Ordering string
	Page     int
	PageSize int
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// EscapeHTML replaces markup-significant characters with HTML entities
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// FullName returns the escaped "first last" form safe for rendering
func (c *Customer) FullName() string {
	return EscapeHTML(fmt.Sprintf("%s %s", c.FirstName, c.LastName))
}

func (c *Customer) String() string {
	return EscapeHTML(fmt.Sprintf("%s %s (%s)", c.FirstName, c.LastName, c.Email))
}

// Detail builds the full representation
func (c *Customer) Detail() *CustomerDetail {
	return &CustomerDetail{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Summary builds the reduced projection
func (c *Customer) Summary() *CustomerSummary {
	return &CustomerSummary{
		ID:       c.ID,
		FullName: c.FullName(),
		Email:    c.Email,
		Phone:    c.Phone,
		IsActive: c.IsActive,
	}
}

// Apply copies every field present in a normalized input onto the customer
func (c *Customer) Apply(in *CustomerInput) {
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}
