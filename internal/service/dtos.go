package service

import (
	"github.com/Raymond9734/customer-management-backend/internal/models"
)

// CustomerListResult represents one page of the reduced customer projection
type CustomerListResult struct {
	Results    []*models.CustomerSummary `json:"results"`
	Pagination models.PaginationResult   `json:"pagination"`
}

// StatusChangeResult is returned by activate and deactivate
type StatusChangeResult struct {
	Message  string                 `json:"message"`
	Customer *models.CustomerDetail `json:"customer"`
}
