// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics. Domain codes
// cover failures the status alone cannot convey, such as a disabled
// integration or an upstream nutrition API error.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "not_found",
//	  "message": "service config not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeTooLarge         = "payload_too_large"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeUnsupportedMedia    = "unsupported_media_type"
	ErrCodeIntegrationDisabled = "integration_disabled"
	ErrCodeUpstreamFailed      = "upstream_failed"
	ErrCodeListFailed          = "list_failed"
	ErrCodeSaveFailed          = "save_failed"
)
