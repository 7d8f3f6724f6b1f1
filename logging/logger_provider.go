package logging

import (
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"
	"go.uber.org/zap"

	"github.com/temporalio/s2s-streams/config"
)

const (
	ComponentActor  LogComponentName = "actor"
	ComponentStream LogComponentName = "stream"
	ComponentSystem LogComponentName = "system"
)

type (
	LogComponentName string
	// LoggerProvider provides customized loggers for different components.
	// Based on the component name, different throttling levels can be applied.
	// Any tags stored with the LoggerProvider with With() will be applied to all loggers returned by Get().
	LoggerProvider interface {
		// Get returns a logger for the given component. If there is no custom config, the root logger will be returned.
		Get(component LogComponentName) log.Logger
		// With returns a new logger provider with the given tags added to all loggers.
		With(tags ...tag.Tag) LoggerProvider
	}
	loggerProvider struct {
		root    log.Logger
		loggers map[LogComponentName]log.Logger
		tags    []tag.Tag
	}
)

func NewLoggerProvider(root log.Logger, config config.ConfigProvider) LoggerProvider {
	streamsConfig := config.GetStreamsConfig()
	globalRootThrottle := log.NewThrottledLogger(root, streamsConfig.Logging.GetThrottleMaxRPS)
	loggersByComponent := make(map[LogComponentName]log.Logger, len(streamsConfig.LogConfigs))
	for component, logConfig := range streamsConfig.LogConfigs {
		if logConfig.Disabled {
			loggersByComponent[LogComponentName(component)] = log.NewNoopLogger()
		} else {
			loggersByComponent[LogComponentName(component)] = log.NewThrottledLogger(globalRootThrottle, logConfig.GetThrottleMaxRPS)
		}
	}
	return &loggerProvider{
		root:    root,
		loggers: loggersByComponent,
	}
}

// NewTestLoggerProvider hands out the same test logger for every component.
func NewTestLoggerProvider() LoggerProvider {
	return &loggerProvider{root: log.NewTestLogger()}
}

func (l *loggerProvider) Get(component LogComponentName) log.Logger {
	logger, exists := l.loggers[component]
	if !exists {
		logger = l.root
	}
	return log.With(logger, l.tags...)
}

func (l *loggerProvider) With(tags ...tag.Tag) LoggerProvider {
	return &loggerProvider{
		root:    l.root,
		loggers: l.loggers,
		tags:    append(l.tags[:len(l.tags):len(l.tags)], tags...),
	}
}

// NewZapLogger builds the process-wide zap logger at the configured level.
func NewZapLogger(config config.ConfigProvider) *zap.Logger {
	return log.BuildZapLogger(log.Config{
		Stdout: true,
		Level:  config.GetStreamsConfig().Logging.GetLevel(),
		Format: "json",
	})
}

// NewRootLogger adapts the zap logger to the structured logger used throughout the module.
func NewRootLogger(zl *zap.Logger) log.Logger {
	return log.NewZapLogger(zl)
}
