package appErrors

// Error codes grouped by domain.
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeAdminOnly          ErrorCode = "ADMIN_ONLY"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Users
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
