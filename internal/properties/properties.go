package properties

import (
	"encoding/xml"
	"fmt"
)

// DefaultVersion is the analytics version written into default-constructed
// Logging and Metrics blocks.
const DefaultVersion = "1.0"

// ValidationError reports a properties object that is invalid before any
// request is issued. Callers can rely on it never having reached the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RetentionPolicy controls how many days a service keeps analytics data or
// soft-deleted data. The same shape serves both the logging/metrics retention
// block and the account-level delete retention block.
//
// Days is a pointer so "not set" stays distinguishable from zero. The 1-365
// range is service policy and is deliberately not checked here; the service
// rejects out-of-range values on its own.
type RetentionPolicy struct {
	Enabled bool `xml:"Enabled"`
	Days    *int `xml:"Days,omitempty"`
}

// NewRetentionPolicy builds a retention policy. An enabled policy must carry
// a day count; that is the only rule enforced locally.
func NewRetentionPolicy(enabled bool, days *int) (*RetentionPolicy, error) {
	p := &RetentionPolicy{Enabled: enabled, Days: days}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// DisabledRetention returns a disabled policy with no day count.
func DisabledRetention() RetentionPolicy {
	return RetentionPolicy{}
}

// Validate enforces the local contract: enabled requires days.
func (p *RetentionPolicy) Validate() error {
	if p == nil {
		return nil
	}
	if p.Enabled && p.Days == nil {
		return &ValidationError{Field: "RetentionPolicy", Reason: "enabled policy requires a day count"}
	}
	return nil
}

// Logging configures request logging for a service.
type Logging struct {
	Version         string          `xml:"Version"`
	Delete          bool            `xml:"Delete"`
	Read            bool            `xml:"Read"`
	Write           bool            `xml:"Write"`
	RetentionPolicy RetentionPolicy `xml:"RetentionPolicy"`
}

// DefaultLogging returns the fully disabled logging block a fresh account
// reports: nothing logged, retention off.
func DefaultLogging() *Logging {
	return &Logging{Version: DefaultVersion}
}

// Metrics configures hour or minute aggregate metrics for a service.
// IncludeAPIs is only meaningful when Enabled is true.
type Metrics struct {
	Version         string          `xml:"Version"`
	Enabled         bool            `xml:"Enabled"`
	IncludeAPIs     *bool           `xml:"IncludeAPIs,omitempty"`
	RetentionPolicy RetentionPolicy `xml:"RetentionPolicy"`
}

// DefaultMetrics returns the disabled metrics block a fresh account reports.
func DefaultMetrics() *Metrics {
	return &Metrics{Version: DefaultVersion}
}

// CorsRule is a single cross-origin rule. The list fields keep caller order;
// on the wire each list is a single comma-joined element. The five-rule limit
// per properties object is service policy, not checked here.
type CorsRule struct {
	AllowedOrigins  CommaList `xml:"AllowedOrigins"`
	AllowedMethods  CommaList `xml:"AllowedMethods"`
	MaxAgeInSeconds int       `xml:"MaxAgeInSeconds"`
	ExposedHeaders  CommaList `xml:"ExposedHeaders"`
	AllowedHeaders  CommaList `xml:"AllowedHeaders"`
}

// NewCorsRule builds a rule from origins and methods; headers and max-age are
// optional and default to empty/zero.
func NewCorsRule(origins, methods []string) CorsRule {
	return CorsRule{
		AllowedOrigins: CommaList(origins),
		AllowedMethods: CommaList(methods),
	}
}

// Cors wraps the rule list so an explicitly empty list (clear all rules) can
// be told apart from an absent one (leave rules unchanged): a nil *Cors is
// unset, &Cors{} is empty.
type Cors struct {
	Rules []CorsRule `xml:"CorsRule"`
}

// ServiceProperties is the account-level configuration subset exposed by a
// service's properties endpoint. Every field is optional; a nil field is
// omitted from the request body and leaves the stored value unchanged.
type ServiceProperties struct {
	XMLName               xml.Name         `xml:"StorageServiceProperties"`
	Logging               *Logging         `xml:"Logging,omitempty"`
	HourMetrics           *Metrics         `xml:"HourMetrics,omitempty"`
	MinuteMetrics         *Metrics         `xml:"MinuteMetrics,omitempty"`
	Cors                  *Cors            `xml:"Cors,omitempty"`
	DefaultServiceVersion *string          `xml:"DefaultServiceVersion,omitempty"`
	DeleteRetentionPolicy *RetentionPolicy `xml:"DeleteRetentionPolicy,omitempty"`
}

// Validate runs the local checks across every set block. Anything beyond
// "enabled retention requires days" is service policy and is left to the
// service so the two never drift apart.
func (p *ServiceProperties) Validate() error {
	if p == nil {
		return nil
	}
	if p.Logging != nil {
		if err := p.Logging.RetentionPolicy.Validate(); err != nil {
			return &ValidationError{Field: "Logging.RetentionPolicy", Reason: "enabled policy requires a day count"}
		}
	}
	if p.HourMetrics != nil {
		if err := p.HourMetrics.RetentionPolicy.Validate(); err != nil {
			return &ValidationError{Field: "HourMetrics.RetentionPolicy", Reason: "enabled policy requires a day count"}
		}
	}
	if p.MinuteMetrics != nil {
		if err := p.MinuteMetrics.RetentionPolicy.Validate(); err != nil {
			return &ValidationError{Field: "MinuteMetrics.RetentionPolicy", Reason: "enabled policy requires a day count"}
		}
	}
	if err := p.DeleteRetentionPolicy.Validate(); err != nil {
		return &ValidationError{Field: "DeleteRetentionPolicy", Reason: "enabled policy requires a day count"}
	}
	return nil
}
