package metrics

import (
	"fmt"
	"time"

	"github.com/uber-go/tally/v4"
	"github.com/uber-go/tally/v4/prometheus"
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/config"
)

// Names of the tally metrics emitted by an actor system.
const (
	MessagesProcessed        = "messages_processed"
	DeferredActionsRun       = "deferred_actions_run"
	MessageProcessingLatency = "message_processing_latency"
)

// tally sanitizer options that satisfy both Prometheus and M3 restrictions.
// This will rename metrics at the tally emission level, so metrics name we
// use maybe different from what gets emitted. In the current implementation
// it will replace - and . with _
var (
	safeCharacters      = []rune{'_'}
	safeValueCharacters = []rune{'_', '-', '.'}

	sanitizeOptions = tally.SanitizeOptions{
		NameCharacters: tally.ValidCharacters{
			Ranges:     tally.AlphanumericRange,
			Characters: safeCharacters,
		},
		KeyCharacters: tally.ValidCharacters{
			Ranges:     tally.AlphanumericRange,
			Characters: safeCharacters,
		},
		ValueCharacters: tally.ValidCharacters{
			Ranges:     tally.AlphanumericRange,
			Characters: safeValueCharacters,
		},
		ReplacementCharacter: tally.DefaultReplacementCharacter,
	}

	// Actors process one message at a time without blocking, so the interesting range is short.
	defaultHistogramBuckets = []time.Duration{
		0,
		10 * time.Microsecond,
		50 * time.Microsecond,
		100 * time.Microsecond,
		250 * time.Microsecond,
		500 * time.Microsecond,
		1 * time.Millisecond,
		2 * time.Millisecond,
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		1 * time.Second,
	}
)

// NewScope builds the tally scope an actor system reports to. Without a metrics section in the
// configuration, or with an unusable one, a no-op scope is returned.
func NewScope(
	configProvider config.ConfigProvider,
	logger log.Logger,
) (tally.Scope, error) {
	scope := tally.NoopScope
	streamsConfig := configProvider.GetStreamsConfig()
	if metricsCfg := streamsConfig.Metrics; metricsCfg != nil {
		reporterConfig := prometheus.ConfigurationOptions{
			OnError: func(err error) {
				logger.Warn("error in prometheus reporter", tag.Error(err))
			},
		}

		prometheusConfig := getPrometheusConfig(metricsCfg.Prometheus, logger)
		if prometheusConfig != nil {
			reporter, err := prometheusConfig.NewReporter(reporterConfig)
			if err != nil {
				logger.Error("error creating prometheus reporter", tag.Error(err))
				return nil, err
			}
			scopeOpts := tally.ScopeOptions{
				Tags: map[string]string{
					"service_name": "s2s-streams",
				},
				CachedReporter:  reporter,
				Separator:       prometheus.DefaultSeparator,
				SanitizeOptions: &sanitizeOptions,
			}

			scope, _ = tally.NewRootScope(scopeOpts, time.Second)
		}
	}

	return scope, nil
}

func getPrometheusConfig(config config.PrometheusConfig, logger log.Logger) *prometheus.Configuration {
	if config.ListenAddress == "" {
		logger.Warn("no prometheus host-port supplied. prometheus reporter will not be configured")
		return nil
	}

	if config.Framework != "tally" {
		logger.Warn(fmt.Sprintf("prometheus framework %s is not supported. prometheus reporter will not be configured", config.Framework))
		return nil
	}

	return &prometheus.Configuration{
		ListenAddress:           config.ListenAddress,
		TimerType:               "histogram",
		DefaultHistogramBuckets: generateHistogramBuckets(),
	}
}

func generateHistogramBuckets() []prometheus.HistogramObjective {
	var result []prometheus.HistogramObjective
	for _, b := range defaultHistogramBuckets {
		result = append(result, prometheus.HistogramObjective{
			Upper: b.Seconds(),
		})
	}

	return result
}
