package assistant

import "errors"

// FaultKind buckets an upstream failure for logging and metrics.
type FaultKind string

const (
	FaultAuth       FaultKind = "auth"
	FaultTransport  FaultKind = "transport"
	FaultTimeout    FaultKind = "timeout"
	FaultHTTPStatus FaultKind = "http_status"
	FaultMalformed  FaultKind = "malformed_response"
)

// Fault describes an upstream failure with a message already phrased for the
// user. The clients compose the message once; callers surface it verbatim
// instead of re-wrapping.
type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string {
	return f.Message
}

// NewFault builds a fault of the given kind.
func NewFault(kind FaultKind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// AsFault unwraps err into a *Fault when it is one.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
