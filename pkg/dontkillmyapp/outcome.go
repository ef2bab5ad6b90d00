package dontkillmyapp

import (
	"fmt"

	"github.com/sells-group/dkma-cli/internal/model"
	"github.com/sells-group/dkma-cli/internal/resilience"
)

// Outcome is the result of fetching one manufacturer. It is one of
// *Success, *NotFound, *NonJSONResponse, *TransportError, *DecodeError or
// *UnexpectedError.
type Outcome interface {
	// Kind returns a short stable label for logging and counting.
	Kind() string
	outcome()
}

// Outcome kinds.
const (
	KindSuccess    = "success"
	KindNotFound   = "not_found"
	KindNonJSON    = "non_json"
	KindTransport  = "transport_error"
	KindDecode     = "decode_error"
	KindUnexpected = "unexpected_error"
)

// Success carries the extracted record.
type Success struct {
	Record model.Record
}

// NotFound means the API answered 404 for the manufacturer.
type NotFound struct {
	StatusCode  int
	ContentType string
}

// NonJSONResponse means the API answered without a JSON content type.
type NonJSONResponse struct {
	StatusCode  int
	ContentType string
}

// TransportError covers network failures, timeouts and error statuses
// other than 404. StatusCode is 0 when no response was received.
type TransportError struct {
	Err        error
	StatusCode int
}

// DecodeError means a JSON-typed body did not parse.
type DecodeError struct {
	Err error
}

// UnexpectedError covers everything else that went wrong for one item.
type UnexpectedError struct {
	Err error
}

func (*Success) Kind() string         { return KindSuccess }
func (*NotFound) Kind() string        { return KindNotFound }
func (*NonJSONResponse) Kind() string { return KindNonJSON }
func (*TransportError) Kind() string  { return KindTransport }
func (*DecodeError) Kind() string     { return KindDecode }
func (*UnexpectedError) Kind() string { return KindUnexpected }

func (*Success) outcome()         {}
func (*NotFound) outcome()        {}
func (*NonJSONResponse) outcome() {}
func (*TransportError) outcome()  {}
func (*DecodeError) outcome()     {}
func (*UnexpectedError) outcome() {}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Cause classifies the underlying failure.
func (e *TransportError) Cause() resilience.FailureKind {
	return resilience.Classify(e.Err)
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *UnexpectedError) Error() string { return e.Err.Error() }

func (e *UnexpectedError) Unwrap() error { return e.Err }
