package uploader

// Progress reports how much of the image has been sent.
type Progress struct {
	BytesSent int
	Total     int
}

// ProgressFunc is called after every chunk. Implementations should return
// quickly to avoid stalling the transfer.
type ProgressFunc func(Progress)

// Config holds the uploader configuration.
type Config struct {
	// ChunkSize is the number of payload bytes written per serial write.
	ChunkSize int

	// Progress, when set, is called after every chunk.
	Progress ProgressFunc
}

func defaultConfig() Config {
	return Config{ChunkSize: 256}
}

// Option is a functional option for configuring the Uploader.
type Option func(*Config)

// WithChunkSize sets the number of payload bytes per serial write.
func WithChunkSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ChunkSize = n
		}
	}
}

// WithProgress sets a callback to track upload progress.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Config) {
		c.Progress = fn
	}
}
