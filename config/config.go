package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	ConfigPathFlag = "config"
	LogLevelFlag   = "level"

	DefaultLoggingThrottleMaxRPS = 10.0
	DefaultLogLevel              = "info"
	DefaultPriority              = "normal"
	DefaultMaxBatchSize          = 50
	DefaultMaxBufferSize         = 256
	DefaultMaxCredit             = 128
	DefaultMailboxWarnThreshold  = 10_000
)

type (
	ConfigProvider interface {
		GetStreamsConfig() StreamsConfig
	}

	StreamsConfig struct {
		Streams    StreamSettings       `yaml:"streams"`
		Actors     ActorSettings        `yaml:"actors"`
		Metrics    *MetricsConfig       `yaml:"metrics"`
		Logging    LoggingConfig        `yaml:"logging"`
		LogConfigs map[string]LogConfig `yaml:"logConfigs"`
	}

	StreamSettings struct {
		// DefaultPriority is attached to streams opened without an explicit priority: "normal" or "high".
		DefaultPriority string `yaml:"defaultPriority"`
		// MaxBatchSize is the batch size consumers ask producers for.
		MaxBatchSize int `yaml:"maxBatchSize"`
		// MaxBufferSize bounds the elements a producer buffers before it reports congestion.
		MaxBufferSize int `yaml:"maxBufferSize"`
		// MaxCredit is the credit a consumer keeps granted on each inbound path.
		MaxCredit int `yaml:"maxCredit"`
	}

	ActorSettings struct {
		// MailboxWarnThreshold logs a warning each time a mailbox grows to this many messages.
		MailboxWarnThreshold int `yaml:"mailboxWarnThreshold"`
	}

	cliConfigProvider struct {
		ctx           *cli.Context
		streamsConfig StreamsConfig
	}

	PrometheusConfig struct {
		ListenAddress string `yaml:"listenAddress"`
		Framework     string `yaml:"framework"`
	}

	MetricsConfig struct {
		Prometheus PrometheusConfig `yaml:"prometheus"`
	}

	LoggingConfig struct {
		Level          string  `yaml:"level"`
		ThrottleMaxRPS float64 `yaml:"throttleMaxRPS"`
	}

	LogConfig struct {
		Disabled       bool    `yaml:"disabled"`
		ThrottleMaxRPS float64 `yaml:"throttleMaxRPS"`
	}
)

func (s *StreamSettings) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Set default
	*s = DefaultStreamSettings()

	// Alias to avoid infinite recursion
	type plain StreamSettings
	return unmarshal((*plain)(s))
}

func DefaultStreamSettings() StreamSettings {
	return StreamSettings{
		DefaultPriority: DefaultPriority,
		MaxBatchSize:    DefaultMaxBatchSize,
		MaxBufferSize:   DefaultMaxBufferSize,
		MaxCredit:       DefaultMaxCredit,
	}
}

// Validate rejects settings that would stall every stream.
func (s StreamSettings) Validate() error {
	if s.MaxBatchSize < 0 || s.MaxBufferSize < 0 || s.MaxCredit < 0 {
		return fmt.Errorf("stream settings must not be negative: %s", s)
	}
	if s.GetMaxCredit() < s.GetMaxBatchSize() {
		return fmt.Errorf("maxCredit %d is smaller than maxBatchSize %d", s.GetMaxCredit(), s.GetMaxBatchSize())
	}
	return nil
}

func (s StreamSettings) GetMaxBatchSize() int {
	if s.MaxBatchSize > 0 {
		return s.MaxBatchSize
	}
	return DefaultMaxBatchSize
}

func (s StreamSettings) GetMaxBufferSize() int {
	if s.MaxBufferSize > 0 {
		return s.MaxBufferSize
	}
	return DefaultMaxBufferSize
}

func (s StreamSettings) GetMaxCredit() int {
	if s.MaxCredit > 0 {
		return s.MaxCredit
	}
	return DefaultMaxCredit
}

func (s StreamSettings) GetDefaultPriority() string {
	if s.DefaultPriority != "" {
		return s.DefaultPriority
	}
	return DefaultPriority
}

func (a ActorSettings) GetMailboxWarnThreshold() int {
	if a.MailboxWarnThreshold > 0 {
		return a.MailboxWarnThreshold
	}
	return DefaultMailboxWarnThreshold
}

func newConfigProvider(ctx *cli.Context) (ConfigProvider, error) {
	streamsConfig := StreamsConfig{Streams: DefaultStreamSettings()}
	if path := ctx.String(ConfigPathFlag); path != "" {
		var err error
		streamsConfig, err = LoadConfig[StreamsConfig](path)
		if err != nil {
			return nil, err
		}
	}
	if level := ctx.String(LogLevelFlag); level != "" {
		streamsConfig.Logging.Level = level
	}
	if err := streamsConfig.Streams.Validate(); err != nil {
		return nil, err
	}

	return &cliConfigProvider{
		ctx:           ctx,
		streamsConfig: streamsConfig,
	}, nil
}

func (c *cliConfigProvider) GetStreamsConfig() StreamsConfig {
	return c.streamsConfig
}

func LoadConfig[T any](configFilePath string) (T, error) {
	var config T
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return config, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

func WriteConfig[T any](config T, filePath string) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(&config)
	if err != nil {
		return err
	}

	// Write the YAML to a file
	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

func marshalWithoutError(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}

	return string(data)
}

func (s StreamSettings) String() string {
	return marshalWithoutError(s)
}

func (l LoggingConfig) GetThrottleMaxRPS() float64 {
	if l.ThrottleMaxRPS > 0 {
		return l.ThrottleMaxRPS
	}
	return DefaultLoggingThrottleMaxRPS
}

func (l LoggingConfig) GetLevel() string {
	if l.Level != "" {
		return l.Level
	}
	return DefaultLogLevel
}

func (l LogConfig) GetThrottleMaxRPS() float64 {
	if l.ThrottleMaxRPS > 0 {
		return l.ThrottleMaxRPS
	}
	return DefaultLoggingThrottleMaxRPS
}
