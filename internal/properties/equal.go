package properties

// Equality helpers mirroring the assertions storage clients make against
// read-back properties. All are nil-safe: two nils are equal, nil against
// non-nil is not.

// RetentionEqual compares enabled flags and day counts.
func RetentionEqual(a, b *RetentionPolicy) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Enabled == b.Enabled && intPtrEqual(a.Days, b.Days)
}

// LoggingEqual compares version, the three operation flags and retention.
func LoggingEqual(a, b *Logging) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Version == b.Version &&
		a.Read == b.Read &&
		a.Write == b.Write &&
		a.Delete == b.Delete &&
		RetentionEqual(&a.RetentionPolicy, &b.RetentionPolicy)
}

// MetricsEqual compares version, enabled, IncludeAPIs and retention.
func MetricsEqual(a, b *Metrics) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Version == b.Version &&
		a.Enabled == b.Enabled &&
		boolPtrEqual(a.IncludeAPIs, b.IncludeAPIs) &&
		RetentionEqual(&a.RetentionPolicy, &b.RetentionPolicy)
}

// CorsEquivalent is the shape comparison the historical assertion helpers
// used: same rule count and, per rule, matching list lengths and max-age.
// List contents are not compared. CorsEqual is the strict form.
func CorsEquivalent(a, b []CorsRule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i].AllowedOrigins) != len(b[i].AllowedOrigins) ||
			len(a[i].AllowedMethods) != len(b[i].AllowedMethods) ||
			a[i].MaxAgeInSeconds != b[i].MaxAgeInSeconds ||
			len(a[i].ExposedHeaders) != len(b[i].ExposedHeaders) ||
			len(a[i].AllowedHeaders) != len(b[i].AllowedHeaders) {
			return false
		}
	}
	return true
}

// CorsEqual compares rule lists element-wise, order included.
func CorsEqual(a, b []CorsRule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].MaxAgeInSeconds != b[i].MaxAgeInSeconds ||
			!listEqual(a[i].AllowedOrigins, b[i].AllowedOrigins) ||
			!listEqual(a[i].AllowedMethods, b[i].AllowedMethods) ||
			!listEqual(a[i].ExposedHeaders, b[i].ExposedHeaders) ||
			!listEqual(a[i].AllowedHeaders, b[i].AllowedHeaders) {
			return false
		}
	}
	return true
}

func listEqual(a, b CommaList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
