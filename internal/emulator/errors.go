package emulator

import (
	"encoding/xml"
	"net/http"
)

// ServiceError is the XML error document the properties endpoint returns.
type ServiceError struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

// Service error codes
const (
	ErrInvalidXmlDocument    = "InvalidXmlDocument"
	ErrInvalidXmlNodeValue   = "InvalidXmlNodeValue"
	ErrUnsupportedXmlNode    = "UnsupportedXmlNode"
	ErrTooManyCorsRules      = "TooManyCorsRules"
	ErrInvalidQueryParameter = "InvalidQueryParameterValue"
	ErrUnsupportedService    = "UnsupportedService"
	ErrAuthenticationFailed  = "AuthenticationFailed"
	ErrServerBusy            = "ServerBusy"
	ErrInternalError         = "InternalError"
)

var errorMessages = map[string]string{
	ErrInvalidXmlDocument:    "XML specified is not syntactically valid",
	ErrInvalidXmlNodeValue:   "The value for one of the XML nodes is not in the correct format",
	ErrUnsupportedXmlNode:    "The XML document contains a node that is not supported by this service",
	ErrTooManyCorsRules:      "The number of CORS rules exceeds the maximum allowed",
	ErrInvalidQueryParameter: "Value for one of the query parameters specified in the request URI is invalid",
	ErrUnsupportedService:    "The requested service is not supported by this endpoint",
	ErrAuthenticationFailed:  "Server failed to authenticate the request",
	ErrServerBusy:            "The server is currently unable to receive requests. Please retry your request",
	ErrInternalError:         "The server encountered an internal error. Please retry the request",
}

var errorStatusCodes = map[string]int{
	ErrInvalidXmlDocument:    http.StatusBadRequest,
	ErrInvalidXmlNodeValue:   http.StatusBadRequest,
	ErrUnsupportedXmlNode:    http.StatusBadRequest,
	ErrTooManyCorsRules:      http.StatusBadRequest,
	ErrInvalidQueryParameter: http.StatusBadRequest,
	ErrUnsupportedService:    http.StatusBadRequest,
	ErrAuthenticationFailed:  http.StatusForbidden,
	ErrServerBusy:            http.StatusServiceUnavailable,
	ErrInternalError:         http.StatusInternalServerError,
}

// WriteError writes the XML error response for a service error code.
func WriteError(w http.ResponseWriter, code, requestID string) {
	message, ok := errorMessages[code]
	if !ok {
		message = "Unknown error"
		code = ErrInternalError
	}

	statusCode, ok := errorStatusCodes[code]
	if !ok {
		statusCode = http.StatusInternalServerError
	}

	body, err := xml.MarshalIndent(ServiceError{Code: code, Message: message}, "", "  ")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	if requestID != "" {
		w.Header().Set("x-ms-request-id", requestID)
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}
