package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrStorageQuotaFull   = errors.New("storage quota full")
	ErrDatabaseCorruption = errors.New("database corruption")
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	// Errors already classified by a backend keep their status
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := strings.ToLower(cause.Error())
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "unique constraint"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"), strings.Contains(errStr, "unavailable"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewStorageQuotaFullError(operation string, size, quota int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInsufficientStorage,
		err:        ErrStorageQuotaFull,
		Details:    fmt.Sprintf("Storage quota full during %s (%d of %d bytes)", operation, size, quota),
		Field:      "storage",
	}
}

func NewDatabaseCorruptionError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseCorruption,
		Details:    fmt.Sprintf("Stored data is unreadable during %s", operation),
		Cause:      cause,
		Field:      "corruption",
	}
}

func NewUnsupportedBackendError(kind string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUnsupportedBackend,
		Details:    fmt.Sprintf("Unsupported DB_TYPE %q", kind),
		Field:      "DB_TYPE",
	}
}

func IsStorageQuotaFullError(err error) bool {
	return errors.Is(err, ErrStorageQuotaFull)
}

func IsDatabaseCorruptionError(err error) bool {
	return errors.Is(err, ErrDatabaseCorruption)
}

func IsUnsupportedBackendError(err error) bool {
	return errors.Is(err, ErrUnsupportedBackend)
}
