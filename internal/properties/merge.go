package properties

// Merge applies a partial update to the current properties and returns the
// result. Fields the update leaves nil keep their current value; set fields
// replace the stored block wholesale. Neither input is modified.
func Merge(current, update *ServiceProperties) *ServiceProperties {
	merged := &ServiceProperties{}
	if current != nil {
		*merged = *current
	}
	if update == nil {
		return merged
	}
	if update.Logging != nil {
		l := *update.Logging
		merged.Logging = &l
	}
	if update.HourMetrics != nil {
		m := *update.HourMetrics
		merged.HourMetrics = &m
	}
	if update.MinuteMetrics != nil {
		m := *update.MinuteMetrics
		merged.MinuteMetrics = &m
	}
	if update.Cors != nil {
		c := Cors{Rules: append([]CorsRule(nil), update.Cors.Rules...)}
		merged.Cors = &c
	}
	if update.DefaultServiceVersion != nil {
		v := *update.DefaultServiceVersion
		merged.DefaultServiceVersion = &v
	}
	if update.DeleteRetentionPolicy != nil {
		p := *update.DeleteRetentionPolicy
		merged.DeleteRetentionPolicy = &p
	}
	return merged
}
