package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Object storage errors
var (
	ErrUploadFailed   = errors.New("upload failed")
	ErrForeignObject  = errors.New("object not owned by this store")
	ErrPartialFailure = errors.New("partial failure")
)

// Third-party delivery errors
var (
	ErrDeliveryFailed      = errors.New("delivery failed")
	ErrServiceNotConfigure = errors.New("service not configured")
)

// Configuration & Environment Errors
var (
	ErrEnvironmentVariable = errors.New("environment variable error")
)

func NewUploadFailedError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("Upload of %s failed", path),
		Cause:      cause,
		Field:      "file",
	}
}

func NewForeignObjectError(url string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrForeignObject,
		Details:    fmt.Sprintf("%s is not stored here", url),
		Field:      "url",
	}
}

func NewPartialFailureError(operation string, failedSteps []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusMultiStatus,
		err:        ErrPartialFailure,
		Details:    fmt.Sprintf("Partial failure during %s: %s", operation, strings.Join(failedSteps, "; ")),
	}
}

func NewDeliveryFailedError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrDeliveryFailed,
		Details:    fmt.Sprintf("Could not deliver %s", channel),
		Cause:      cause,
	}
}

func NewServiceNotConfiguredError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceNotConfigure,
		Details:    fmt.Sprintf("%s is not configured", service),
		Field:      service,
	}
}

// Configuration & Environment Error Constructors
func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func IsUploadFailedError(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

func IsForeignObjectError(err error) bool {
	return errors.Is(err, ErrForeignObject)
}

func IsPartialFailureError(err error) bool {
	return errors.Is(err, ErrPartialFailure)
}

func IsDeliveryFailedError(err error) bool {
	return errors.Is(err, ErrDeliveryFailed)
}

func IsServiceNotConfiguredError(err error) bool {
	return errors.Is(err, ErrServiceNotConfigure)
}

func IsEnvironmentVariableError(err error) bool {
	return errors.Is(err, ErrEnvironmentVariable)
}
