package emulator

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tidecraft/ballast/internal/properties"
)

// Service-side policy limits. Deliberately enforced here and not in the
// model: clients treat them as service policy that may change.
const (
	MaxCorsRules     = 5
	MinRetentionDays = 1
	MaxRetentionDays = 365
)

func (s *Server) resolveTarget(w http.ResponseWriter, r *http.Request) (properties.ServiceKind, string, bool) {
	requestID := RequestIDFromContext(r.Context())

	q := r.URL.Query()
	if q.Get("restype") != "service" || q.Get("comp") != "properties" {
		s.metrics.IncrementRejected(ErrInvalidQueryParameter)
		WriteError(w, ErrInvalidQueryParameter, requestID)
		return "", "", false
	}

	kind, err := properties.ParseServiceKind(chi.URLParam(r, "service"))
	if err != nil {
		s.metrics.IncrementRejected(ErrUnsupportedService)
		WriteError(w, ErrUnsupportedService, requestID)
		return "", "", false
	}

	return kind, chi.URLParam(r, "account"), true
}

func (s *Server) handleGetProperties(w http.ResponseWriter, r *http.Request) {
	kind, account, ok := s.resolveTarget(w, r)
	if !ok {
		return
	}

	stored, err := s.store.Get(r.Context(), account, kind)
	if err != nil {
		s.logger.Error("load properties", zap.Error(err))
		WriteError(w, ErrInternalError, RequestIDFromContext(r.Context()))
		return
	}
	if stored == nil {
		stored = properties.Defaults(kind)
	}

	body, err := properties.Marshal(stored)
	if err != nil {
		s.logger.Error("marshal properties", zap.Error(err))
		WriteError(w, ErrInternalError, RequestIDFromContext(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(body)
}

func (s *Server) handleSetProperties(w http.ResponseWriter, r *http.Request) {
	kind, account, ok := s.resolveTarget(w, r)
	if !ok {
		return
	}
	requestID := RequestIDFromContext(r.Context())

	update, err := properties.Unmarshal(r.Body)
	if err != nil {
		s.reject(w, ErrInvalidXmlDocument, requestID)
		return
	}

	if code := checkSupported(kind, update); code != "" {
		s.reject(w, code, requestID)
		return
	}
	if code := checkPolicy(update); code != "" {
		s.reject(w, code, requestID)
		return
	}

	current, err := s.store.Get(r.Context(), account, kind)
	if err != nil {
		s.logger.Error("load properties", zap.Error(err))
		WriteError(w, ErrInternalError, requestID)
		return
	}
	if current == nil {
		current = properties.Defaults(kind)
	}

	merged := properties.Merge(current, update)
	if err := s.store.Set(r.Context(), account, kind, merged); err != nil {
		s.logger.Error("store properties", zap.Error(err))
		WriteError(w, ErrInternalError, requestID)
		return
	}

	s.logger.Info("service properties updated",
		zap.String("account", account),
		zap.String("service", string(kind)),
		zap.String("request_id", requestID))
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) reject(w http.ResponseWriter, code, requestID string) {
	s.metrics.IncrementRejected(code)
	WriteError(w, code, requestID)
}

// checkSupported rejects blocks the service kind does not expose.
func checkSupported(kind properties.ServiceKind, p *properties.ServiceProperties) string {
	if p.Logging != nil && !kind.SupportsLogging() {
		return ErrUnsupportedXmlNode
	}
	if p.DefaultServiceVersion != nil && !kind.SupportsDefaultVersion() {
		return ErrUnsupportedXmlNode
	}
	if p.DeleteRetentionPolicy != nil && !kind.SupportsDeleteRetention() {
		return ErrUnsupportedXmlNode
	}
	return ""
}

// checkPolicy enforces the service-side value constraints on a set request.
func checkPolicy(p *properties.ServiceProperties) string {
	retention := []*properties.RetentionPolicy{p.DeleteRetentionPolicy}
	if p.Logging != nil {
		retention = append(retention, &p.Logging.RetentionPolicy)
	}
	if p.HourMetrics != nil {
		retention = append(retention, &p.HourMetrics.RetentionPolicy)
	}
	if p.MinuteMetrics != nil {
		retention = append(retention, &p.MinuteMetrics.RetentionPolicy)
	}

	for _, rp := range retention {
		if rp == nil {
			continue
		}
		if rp.Enabled && rp.Days == nil {
			return ErrInvalidXmlNodeValue
		}
		if rp.Days != nil && (*rp.Days < MinRetentionDays || *rp.Days > MaxRetentionDays) {
			return ErrInvalidXmlNodeValue
		}
	}

	if p.Cors != nil {
		if len(p.Cors.Rules) > MaxCorsRules {
			return ErrTooManyCorsRules
		}
		for _, rule := range p.Cors.Rules {
			if rule.MaxAgeInSeconds < 0 {
				return ErrInvalidXmlNodeValue
			}
		}
	}
	return ""
}
