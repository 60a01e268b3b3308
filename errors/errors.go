package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

func newAppError(httpCode int, code ErrorCode, message string, raw error) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  httpCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error", err)
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message, nil)
}

func ErrNotFound(resource string) AppError {
	return newAppError(http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource), nil)
}

func ErrUnauthenticated() AppError {
	return newAppError(http.StatusUnauthorized, ErrorCode_UNAUTHENTICATED, "Authentication required", nil)
}

func ErrStoreUnavailable(err error) AppError {
	return newAppError(http.StatusServiceUnavailable, ErrorCode_STORE_UNAVAILABLE, "Database not available", err)
}

// Authentication Errors

// ErrInvalidToken is returned for malformed or expired bearer tokens
func ErrInvalidToken() AppError {
	return newAppError(http.StatusForbidden, ErrorCode_AUTH_INVALID_TOKEN, "Invalid or expired token", nil)
}

func ErrInvalidCredentials() AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_AUTH_INVALID_CREDENTIALS, "Invalid credentials", nil)
}

func ErrUnverifiedAccount() AppError {
	return newAppError(http.StatusForbidden, ErrorCode_AUTH_UNVERIFIED_ACCOUNT, "Please verify your email before logging in", nil)
}

func ErrUserNotFound() AppError {
	return newAppError(http.StatusNotFound, ErrorCode_AUTH_USER_NOT_FOUND, "User not found", nil)
}

func ErrUserAlreadyExists(email string) AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_AUTH_USER_ALREADY_EXISTS, "User already exists", nil).
		WithDetail("email", email)
}

func ErrInvalidVerificationToken() AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_AUTH_INVALID_VERIFICATION_TOKEN, "Invalid or expired verification token", nil)
}

func ErrOAuthFailed(provider string, err error) AppError {
	return newAppError(http.StatusUnauthorized, ErrorCode_AUTH_OAUTH_FAILED, fmt.Sprintf("OAuth authentication failed with %s", provider), err)
}

func ErrOAuthNotConfigured(provider string) AppError {
	return newAppError(http.StatusServiceUnavailable, ErrorCode_AUTH_OAUTH_NOT_CONFIGURED, fmt.Sprintf("%s login is not configured", provider), nil)
}

// Meeting Errors
func ErrMissingFile() AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_MEETING_MISSING_FILE, "No file uploaded", nil)
}

func ErrMissingTopic() AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_MEETING_MISSING_TOPIC, "Topic is required", nil)
}

func ErrMissingParticipants() AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_MEETING_MISSING_PARTICIPANTS, "At least one participant is required", nil)
}

func ErrMeetingNotFound(meetingID string) AppError {
	return newAppError(http.StatusNotFound, ErrorCode_MEETING_NOT_FOUND, "Meeting not found", nil).
		WithDetail("meeting_id", meetingID)
}

func ErrMeetingBusy(meetingID string) AppError {
	return newAppError(http.StatusConflict, ErrorCode_MEETING_BUSY, "Another upload for this meeting is in progress", nil).
		WithDetail("meeting_id", meetingID)
}

func ErrMeetingCompleted(meetingID string) AppError {
	return newAppError(http.StatusConflict, ErrorCode_MEETING_COMPLETED, "Meeting already has a completed recording", nil).
		WithDetail("meeting_id", meetingID)
}

func ErrMeetingForbidden(meetingID string) AppError {
	return newAppError(http.StatusForbidden, ErrorCode_MEETING_FORBIDDEN, "Meeting belongs to another user", nil).
		WithDetail("meeting_id", meetingID)
}

// Upstream Errors
func ErrTranscriptionFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_AI_TRANSCRIPTION_FAILED, "Failed to transcribe audio", err)
}

func ErrSummaryFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_AI_SUMMARY_FAILED, "Failed to summarize transcript", err)
}

func ErrResearchFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_AI_RESEARCH_FAILED, "Failed to prepare meeting", err)
}

func ErrReportGenerationFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_REPORT_GENERATION_FAILED, "Failed to generate PDF", err)
}

func ErrExternalAPIFailed(service string, err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_EXTERNAL_API_FAILED, fmt.Sprintf("%s request failed", service), err)
}

// ErrUpstreamTimeout marks an external call that ran out of time or retries
func ErrUpstreamTimeout(service string, err error) AppError {
	return newAppError(http.StatusGatewayTimeout, ErrorCode_UPSTREAM_TIMEOUT, fmt.Sprintf("%s did not respond in time", service), err)
}
