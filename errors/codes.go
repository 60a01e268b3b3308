package errors

// ErrorCode identifies an application error independent of its HTTP status
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_UNAVAILABLE       ErrorCode = 1006
	ErrorCode_CONFLICT          ErrorCode = 1007

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN              ErrorCode = 2000
	ErrorCode_AUTH_INVALID_CREDENTIALS        ErrorCode = 2001
	ErrorCode_AUTH_USER_NOT_FOUND             ErrorCode = 2002
	ErrorCode_AUTH_USER_ALREADY_EXISTS        ErrorCode = 2003
	ErrorCode_AUTH_UNVERIFIED_ACCOUNT         ErrorCode = 2004
	ErrorCode_AUTH_INVALID_VERIFICATION_TOKEN ErrorCode = 2005
	ErrorCode_AUTH_OAUTH_FAILED               ErrorCode = 2006
	ErrorCode_AUTH_OAUTH_NOT_CONFIGURED       ErrorCode = 2007

	// Meetings
	ErrorCode_MEETING_MISSING_FILE         ErrorCode = 3000
	ErrorCode_MEETING_MISSING_TOPIC        ErrorCode = 3001
	ErrorCode_MEETING_MISSING_PARTICIPANTS ErrorCode = 3002
	ErrorCode_MEETING_NOT_FOUND            ErrorCode = 3003
	ErrorCode_MEETING_BUSY                 ErrorCode = 3004
	ErrorCode_MEETING_COMPLETED            ErrorCode = 3005
	ErrorCode_MEETING_FORBIDDEN            ErrorCode = 3006

	// Upstream services
	ErrorCode_AI_TRANSCRIPTION_FAILED  ErrorCode = 4000
	ErrorCode_AI_SUMMARY_FAILED        ErrorCode = 4001
	ErrorCode_AI_RESEARCH_FAILED       ErrorCode = 4002
	ErrorCode_REPORT_GENERATION_FAILED ErrorCode = 4003
	ErrorCode_EXTERNAL_API_FAILED      ErrorCode = 4004
	ErrorCode_UPSTREAM_TIMEOUT         ErrorCode = 4005
	ErrorCode_STORE_UNAVAILABLE        ErrorCode = 4006
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                     "UNSPECIFIED",
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_UNAVAILABLE:                     "UNAVAILABLE",
	ErrorCode_CONFLICT:                        "CONFLICT",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_INVALID_CREDENTIALS:        "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:             "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:        "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_UNVERIFIED_ACCOUNT:         "AUTH_UNVERIFIED_ACCOUNT",
	ErrorCode_AUTH_INVALID_VERIFICATION_TOKEN: "AUTH_INVALID_VERIFICATION_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:               "AUTH_OAUTH_FAILED",
	ErrorCode_AUTH_OAUTH_NOT_CONFIGURED:       "AUTH_OAUTH_NOT_CONFIGURED",
	ErrorCode_MEETING_MISSING_FILE:            "MEETING_MISSING_FILE",
	ErrorCode_MEETING_MISSING_TOPIC:           "MEETING_MISSING_TOPIC",
	ErrorCode_MEETING_MISSING_PARTICIPANTS:    "MEETING_MISSING_PARTICIPANTS",
	ErrorCode_MEETING_NOT_FOUND:               "MEETING_NOT_FOUND",
	ErrorCode_MEETING_BUSY:                    "MEETING_BUSY",
	ErrorCode_MEETING_COMPLETED:               "MEETING_COMPLETED",
	ErrorCode_MEETING_FORBIDDEN:               "MEETING_FORBIDDEN",
	ErrorCode_AI_TRANSCRIPTION_FAILED:         "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SUMMARY_FAILED:               "AI_SUMMARY_FAILED",
	ErrorCode_AI_RESEARCH_FAILED:              "AI_RESEARCH_FAILED",
	ErrorCode_REPORT_GENERATION_FAILED:        "REPORT_GENERATION_FAILED",
	ErrorCode_EXTERNAL_API_FAILED:             "EXTERNAL_API_FAILED",
	ErrorCode_UPSTREAM_TIMEOUT:                "UPSTREAM_TIMEOUT",
	ErrorCode_STORE_UNAVAILABLE:               "STORE_UNAVAILABLE",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}
