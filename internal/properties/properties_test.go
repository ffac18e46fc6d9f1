package properties

import (
	"errors"
	"testing"

	"github.com/Azure/go-autorest/autorest/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetentionPolicy(t *testing.T) {
	t.Run("enabled with days", func(t *testing.T) {
		p, err := NewRetentionPolicy(true, to.IntPtr(5))
		require.NoError(t, err)
		assert.True(t, p.Enabled)
		assert.Equal(t, 5, *p.Days)
	})

	t.Run("enabled without days is rejected locally", func(t *testing.T) {
		_, err := NewRetentionPolicy(true, nil)
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "RetentionPolicy", verr.Field)
	})

	t.Run("disabled without days", func(t *testing.T) {
		p, err := NewRetentionPolicy(false, nil)
		require.NoError(t, err)
		assert.False(t, p.Enabled)
		assert.Nil(t, p.Days)
	})

	t.Run("out-of-range days are accepted, range is service policy", func(t *testing.T) {
		p, err := NewRetentionPolicy(true, to.IntPtr(366))
		require.NoError(t, err)
		assert.Equal(t, 366, *p.Days)

		p, err = NewRetentionPolicy(true, to.IntPtr(0))
		require.NoError(t, err)
		assert.Equal(t, 0, *p.Days)
	})
}

func TestServiceProperties_Validate(t *testing.T) {
	t.Run("nil and empty are valid", func(t *testing.T) {
		var p *ServiceProperties
		assert.NoError(t, p.Validate())
		assert.NoError(t, (&ServiceProperties{}).Validate())
	})

	t.Run("enabled retention without days fails per block", func(t *testing.T) {
		bad := RetentionPolicy{Enabled: true}

		cases := map[string]*ServiceProperties{
			"Logging.RetentionPolicy":       {Logging: &Logging{Version: DefaultVersion, RetentionPolicy: bad}},
			"HourMetrics.RetentionPolicy":   {HourMetrics: &Metrics{Version: DefaultVersion, RetentionPolicy: bad}},
			"MinuteMetrics.RetentionPolicy": {MinuteMetrics: &Metrics{Version: DefaultVersion, RetentionPolicy: bad}},
			"DeleteRetentionPolicy":         {DeleteRetentionPolicy: &bad},
		}

		for field, p := range cases {
			err := p.Validate()
			require.Error(t, err, field)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), field)
			assert.Equal(t, field, verr.Field)
		}
	})
}

func TestDefaults(t *testing.T) {
	t.Run("blob has every block", func(t *testing.T) {
		p := Defaults(ServiceBlob)
		require.NotNil(t, p.Logging)
		assert.True(t, LoggingEqual(p.Logging, DefaultLogging()))
		assert.True(t, MetricsEqual(p.HourMetrics, DefaultMetrics()))
		assert.True(t, MetricsEqual(p.MinuteMetrics, DefaultMetrics()))
		require.NotNil(t, p.Cors)
		assert.Empty(t, p.Cors.Rules)
		require.NotNil(t, p.DeleteRetentionPolicy)
		assert.False(t, p.DeleteRetentionPolicy.Enabled)
		assert.Nil(t, p.DefaultServiceVersion)
	})

	t.Run("queue has no delete retention", func(t *testing.T) {
		p := Defaults(ServiceQueue)
		assert.NotNil(t, p.Logging)
		assert.Nil(t, p.DeleteRetentionPolicy)
	})

	t.Run("file has no logging", func(t *testing.T) {
		p := Defaults(ServiceFile)
		assert.Nil(t, p.Logging)
		assert.Nil(t, p.DeleteRetentionPolicy)
		assert.NotNil(t, p.HourMetrics)
	})
}

func TestParseServiceKind(t *testing.T) {
	for _, s := range []string{"blob", "queue", "file"} {
		k, err := ParseServiceKind(s)
		require.NoError(t, err)
		assert.Equal(t, ServiceKind(s), k)
	}

	_, err := ParseServiceKind("table")
	assert.Error(t, err)
}
