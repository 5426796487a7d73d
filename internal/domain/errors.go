package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound         = errors.New("domain: not found")
	ErrTenantIDRequired = errors.New("domain: tenant id required")
	ErrTenantNotFound   = errors.New("domain: tenant not found")
)
