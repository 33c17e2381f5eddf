package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrFilingPersist indicates that recording a filed declaration failed.
// The computed report stays valid; the filing action is retryable.
var ErrFilingPersist = errors.New("failed to persist filing status")
