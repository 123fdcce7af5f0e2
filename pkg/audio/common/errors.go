package common

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// AnalysisError represents analysis-related errors
type AnalysisError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	// ErrCodeInsufficientData marks a buffer that is empty or too short
	// to form an analysis window. Item-scoped, never retried.
	ErrCodeInsufficientData = "INSUFFICIENT_DATA"

	// ErrCodeDecodeFailure marks invalid PCM handed in by a collaborator.
	ErrCodeDecodeFailure = "DECODE_FAILED"

	// ErrCodeInvalidConfig marks an invalid engine or batch configuration.
	// Fatal to the submission call, raised before any item is scheduled.
	ErrCodeInvalidConfig = "INVALID_CONFIG"
)

// NewAnalysisError creates a new analysis error
func NewAnalysisError(code, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err is an *AnalysisError carrying the given code.
func IsCode(err error, code string) bool {
	for err != nil {
		if ae, ok := err.(*AnalysisError); ok {
			return ae.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
