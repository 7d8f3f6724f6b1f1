package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
	"go.temporal.io/server/common/log"

	"github.com/temporalio/s2s-streams/config"
	"github.com/temporalio/s2s-streams/testutil"
)

func TestSanitizeForPrometheus(t *testing.T) {
	assert.Equal(t, "myCoolMetric_name:123", SanitizeForPrometheus("myCoolMetric_name:123"), "Overly aggressive replacement! We mangled a valid metric.")
	assert.Equal(t, "_23myCoolMetric_name:123", SanitizeForPrometheus("123myCoolMetric_name:123"), "Metrics are not allowed to start with a number")
	assert.Equal(t, ":weirdName:123", SanitizeForPrometheus(":weirdName:123"), "Metrics ARE allowed to start with a colon!")
	assert.Equal(t, "my_Cool_Metric_Name_:456", SanitizeForPrometheus("my@Cool#Metric-Name+:456"), "Underscore and colon are the only allowed special characters")
}

func TestNewScopeWithoutMetricsConfig(t *testing.T) {
	scope, err := NewScope(config.NewMockConfigProvider(config.StreamsConfig{}), log.NewTestLogger())
	require.NoError(t, err)
	require.Equal(t, tally.NoopScope, scope)
}

func TestNewScopeUnsupportedFramework(t *testing.T) {
	provider := config.NewMockConfigProvider(config.StreamsConfig{
		Metrics: &config.MetricsConfig{
			Prometheus: config.PrometheusConfig{ListenAddress: "localhost:0", Framework: "opentelemetry"},
		},
	})
	scope, err := NewScope(provider, log.NewTestLogger())
	require.NoError(t, err)
	require.Equal(t, tally.NoopScope, scope)
}

func TestNewScopeWithPrometheusReporter(t *testing.T) {
	provider := config.NewMockConfigProvider(config.StreamsConfig{
		Metrics: &config.MetricsConfig{
			Prometheus: config.PrometheusConfig{ListenAddress: testutil.GetFreeListenAddress(), Framework: "tally"},
		},
	})
	scope, err := NewScope(provider, log.NewTestLogger())
	require.NoError(t, err)
	require.NotEqual(t, tally.NoopScope, scope)

	scope.Tagged(map[string]string{"actor": "test"}).Counter(MessagesProcessed).Inc(1)
}

func TestHistogramBucketsAscending(t *testing.T) {
	buckets := generateHistogramBuckets()
	require.Len(t, buckets, len(defaultHistogramBuckets))
	for i := 1; i < len(buckets); i++ {
		assert.Less(t, buckets[i-1].Upper, buckets[i].Upper)
	}
}
