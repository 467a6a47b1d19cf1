package core

// RenderConfig defines the settings a host uses to build an engine.
type RenderConfig struct {
	SampleRate float64
	BlockSize  int
	Voices     int
	FixedPoint bool
}

// RenderOption mutates a RenderConfig.
type RenderOption func(*RenderConfig)

// DefaultRenderConfig returns sensible defaults for offline and streaming use.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		SampleRate: 44100,
		BlockSize:  512,
		Voices:     8,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) RenderOption {
	return func(cfg *RenderConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the host block size.
func WithBlockSize(blockSize int) RenderOption {
	return func(cfg *RenderConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithVoices sets the polyphony; 1 selects the monophonic allocator.
func WithVoices(voices int) RenderOption {
	return func(cfg *RenderConfig) {
		if voices > 0 {
			cfg.Voices = voices
		}
	}
}

// WithFixedPoint selects the fixed-point numeric domain.
func WithFixedPoint(enabled bool) RenderOption {
	return func(cfg *RenderConfig) {
		cfg.FixedPoint = enabled
	}
}

// ApplyRenderOptions applies zero or more options to the default config.
func ApplyRenderOptions(opts ...RenderOption) RenderConfig {
	cfg := DefaultRenderConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
