package properties

import "fmt"

// ServiceKind names the storage modality a properties object belongs to.
type ServiceKind string

const (
	ServiceBlob  ServiceKind = "blob"
	ServiceQueue ServiceKind = "queue"
	ServiceFile  ServiceKind = "file"
)

// ParseServiceKind maps a path segment to a kind.
func ParseServiceKind(s string) (ServiceKind, error) {
	switch ServiceKind(s) {
	case ServiceBlob, ServiceQueue, ServiceFile:
		return ServiceKind(s), nil
	}
	return "", fmt.Errorf("unknown service kind %q", s)
}

// SupportsLogging reports whether the service exposes a Logging block.
// The file service has no request logging.
func (k ServiceKind) SupportsLogging() bool {
	return k == ServiceBlob || k == ServiceQueue
}

// SupportsDefaultVersion reports whether the service honors
// DefaultServiceVersion. Only blob does.
func (k ServiceKind) SupportsDefaultVersion() bool {
	return k == ServiceBlob
}

// SupportsDeleteRetention reports whether the service supports soft-delete
// retention. Only blob does.
func (k ServiceKind) SupportsDeleteRetention() bool {
	return k == ServiceBlob
}

// Defaults returns the properties a fresh account reports for the given
// service kind: everything disabled, empty CORS, no default version.
func Defaults(kind ServiceKind) *ServiceProperties {
	p := &ServiceProperties{
		HourMetrics:   DefaultMetrics(),
		MinuteMetrics: DefaultMetrics(),
		Cors:          &Cors{},
	}
	if kind.SupportsLogging() {
		p.Logging = DefaultLogging()
	}
	if kind.SupportsDeleteRetention() {
		p.DeleteRetentionPolicy = &RetentionPolicy{}
	}
	return p
}
