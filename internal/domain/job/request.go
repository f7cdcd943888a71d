package job

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/honeycarbs/jobscout/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// ErrInvalidRequest is returned for search requests rejected before dispatch
var ErrInvalidRequest = errors.New("invalid search request")

var validate = validator.New()

// WithDefaults fills zero paging and sort fields
func WithDefaults(req domain.SearchRequest) domain.SearchRequest {
	if req.Page == 0 {
		req.Page = DefaultPage
	}
	if req.PageSize == 0 {
		req.PageSize = DefaultPageSize
	}
	if req.SortKey == "" {
		req.SortKey = domain.SortRelevance
	}
	return req
}

// ValidateRequest checks field ranges and the salary bound ordering
func ValidateRequest(req domain.SearchRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.MinSalary != nil && req.MaxSalary != nil && *req.MaxSalary < *req.MinSalary {
		return fmt.Errorf("%w: max_salary must not be below min_salary", ErrInvalidRequest)
	}
	return nil
}

// ValidateProviderConfig checks that a provider has the credentials it needs
func ValidateProviderConfig(cfg domain.ProviderConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("provider %q: %w", cfg.Name, err)
	}
	return nil
}
