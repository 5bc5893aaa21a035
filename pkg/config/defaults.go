package config

const (
	defaultServerListen = ":8080"

	defaultMemoryBaseURL    = "https://api.supermemory.ai"
	defaultMemoryTimeoutMS  = 300
	defaultMemoryFetchLimit = 10

	defaultMetadataProvider = "sqlite"

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "recall.calls"

	defaultPipelineWorkers   = 3
	defaultPipelineQueueSize = 64
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		Memory: MemoryConfig{
			BaseURL:    defaultMemoryBaseURL,
			TimeoutMS:  defaultMemoryTimeoutMS,
			FetchLimit: defaultMemoryFetchLimit,
		},
		Metadata: MetadataConfig{
			Provider: defaultMetadataProvider,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
		Pipeline: PipelineConfig{
			Workers:   defaultPipelineWorkers,
			QueueSize: defaultPipelineQueueSize,
		},
	}
}
