package error_handling

import "fmt"

// ProviderError is a failed send reported by a messaging provider, or a
// transport failure before any provider response was received.
type ProviderError struct {
	Channel      string `json:"-"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorDetails string `json:"errorDetails,omitempty"`
	StatusCode   int    `json:"-"`
	Err          error  `json:"-"`
}

func NewProviderError(channel string, err error, statusCode ...int) *ProviderError {
	errObj := &ProviderError{Channel: channel, Err: err}

	if len(statusCode) > 0 {
		errObj.StatusCode = statusCode[0]
	}

	return errObj
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: channel=%s statusCode=%d, err:%v, errorCode=%v, details=%s",
		e.Channel,
		e.StatusCode,
		e.Err,
		e.ErrorCode,
		e.ErrorDetails,
	)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether the failure happened before the
// provider produced a structured error body.
func (e *ProviderError) IsTransportError() bool {
	return e.ErrorCode == "" && e.ErrorDetails == "" && e.Err != nil
}
