package client

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StorageError is a rejection reported by the service itself, as opposed to
// a local validation failure that never left the process. It carries the
// HTTP status and the service's error code so callers can tell a policy
// violation from a programming error.
type StorageError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage service error: status=%d code=%s: %s", e.StatusCode, e.Code, e.Message)
}

// HasCode reports whether err is a StorageError carrying the given service
// error code.
func HasCode(err error, code string) bool {
	var serr *StorageError
	return errors.As(err, &serr) && serr.Code == code
}

type errorResponse struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

// newStorageError builds a StorageError from a non-success response. A body
// that is not the service's XML error document still yields a usable error
// with the status code alone.
func newStorageError(resp *http.Response) *StorageError {
	serr := &StorageError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("x-ms-request-id"),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return serr
	}

	var wire errorResponse
	if err := xml.Unmarshal(body, &wire); err == nil {
		serr.Code = wire.Code
		serr.Message = wire.Message
	}
	return serr
}
