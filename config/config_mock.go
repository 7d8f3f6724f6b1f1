package config

type (
	MockConfigProvider struct {
		config StreamsConfig
	}
)

var (
	EmptyConfigProvider MockConfigProvider
)

func NewMockConfigProvider(config StreamsConfig) *MockConfigProvider {
	return &MockConfigProvider{config: config}
}

func (mc *MockConfigProvider) GetStreamsConfig() StreamsConfig {
	return mc.config
}
