// Package config provides configuration structures and defaults for the
// sigview tools
package config

// Config represents the complete application configuration
type Config struct {
	Signal    SignalConfig    `mapstructure:"signal" yaml:"signal"`       // Window streaming and paging settings
	Converter ConverterConfig `mapstructure:"converter" yaml:"converter"` // CSV to binary conversion settings
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`     // Logging configuration
}

// SignalConfig contains the windowing parameters shared by the streaming
// viewer and the pager
type SignalConfig struct {
	WindowSize        int     `mapstructure:"window_size" yaml:"window_size"`                 // Samples per displayed window
	ChunkSize         int     `mapstructure:"chunk_size" yaml:"chunk_size"`                   // Samples read per streaming iteration
	DownsampleStride  int     `mapstructure:"downsample_stride" yaml:"downsample_stride"`     // Keep every Nth point for display
	SampleRateDivisor float64 `mapstructure:"sample_rate_divisor" yaml:"sample_rate_divisor"` // Sample offsets divided by this give x in seconds
	Channel           int     `mapstructure:"channel" yaml:"channel"`                         // Displayed channel: 1 (adc1) or 2 (adc2)
}

// ConverterConfig contains cadence settings for long-running conversions
type ConverterConfig struct {
	ProgressEveryRows int `mapstructure:"progress_every_rows" yaml:"progress_every_rows"` // Rows between progress notifications
	FlushEveryRows    int `mapstructure:"flush_every_rows" yaml:"flush_every_rows"`       // Rows between durable flushes
}

// LoggingConfig contains logging configuration parameters
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // Log level (debug, info, warn, error)
}

// DefaultConfig returns a configuration with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Signal: SignalConfig{
			WindowSize:        500000, // 10 seconds at the default rate
			ChunkSize:         50000,  // 1 second of samples per iteration
			DownsampleStride:  100,    // Per-sample plotting is not render-feasible
			SampleRateDivisor: 50000,  // Source records 50 kSps
			Channel:           1,      // adc1 by default
		},
		Converter: ConverterConfig{
			ProgressEveryRows: 50000,      // Per-row notifications would flood the sink
			FlushEveryRows:    60 * 50000, // Bound buffered-row growth on long writes
		},
		Logging: LoggingConfig{
			Level: "info", // Info level logging
		},
	}
}
