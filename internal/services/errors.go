package services

import "errors"

// Standard service errors for consistent error handling across stores
var (
	// Validation errors (detected synchronously, never mutate state)
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidInput          = errors.New("invalid input provided")
	ErrInvalidFrequency      = errors.New("invalid sync frequency")
	ErrUnsupportedProvider   = errors.New("provider not supported: coming soon")
	ErrUnsupportedAttachment = errors.New("attachment type not supported")

	// Identity provider errors
	ErrAuthFailed         = errors.New("authentication failed")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrDeliveryFailed     = errors.New("password reset delivery failed")

	// AI service errors
	ErrGenerationFailed = errors.New("reply generation failed")
	ErrAIUnavailable    = errors.New("AI provider not available")

	// Email connector errors
	ErrConnectFailed = errors.New("provider connection failed")
	ErrSyncFailed    = errors.New("account sync failed")
	ErrRevokeFailed  = errors.New("provider revocation failed")

	// Transient errors
	ErrTimeout            = errors.New("operation timed out")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrOperationPending   = errors.New("operation already in progress")
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrSyncFailed)
}

// IsPermanentError determines if an error is permanent and should not be retried
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrUnsupportedProvider) ||
		errors.Is(err, ErrUnsupportedAttachment)
}
