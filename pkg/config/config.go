package config

import (
	"runtime"

	"github.com/Cheburusska/datatable/pkg/compression"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/logger"
	"github.com/Cheburusska/datatable/pkg/mmap"
)

// Default decode bounds of the NFF loader.
const (
	DefaultMaxFilenameLen = 100
	DefaultMaxPathLen     = 900
	DefaultMaxMetaLen     = 100
)

// Config is the top-level configuration.
type Config struct {
	// Loader controls how NFF directories are opened
	Loader LoaderConfig `yaml:"loader" json:"loader"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging"`

	// Export configures Arrow IPC export
	Export ExportConfig `yaml:"export" json:"export"`
}

// LoaderConfig contains the NFF loader settings.
type LoaderConfig struct {
	// MaxFilenameLen bounds the byte length of a colspec file name
	MaxFilenameLen int `yaml:"max_filename_len" json:"max_filename_len"`
	// MaxPathLen bounds the byte length of directory + file name
	MaxPathLen int `yaml:"max_path_len" json:"max_path_len"`
	// MaxMetaLen bounds the byte length of a colspec meta string
	MaxMetaLen int `yaml:"max_meta_len" json:"max_meta_len"`
	// UseMmap maps column files; when false they are read into memory
	UseMmap bool `yaml:"use_mmap" json:"use_mmap"`
	// Advise is the madvise hint for mapped files: normal, sequential,
	// random or willneed
	Advise string `yaml:"advise" json:"advise"`
	// Verify walks every loaded column and checks offsets and bool values
	Verify bool `yaml:"verify" json:"verify"`
}

// ExportConfig contains the Arrow export settings.
type ExportConfig struct {
	// Compression is one of none, gzip, snappy, lz4, zstd, s2, deflate
	Compression string `yaml:"compression" json:"compression"`
	// Level is one of fastest, default, better, best
	Level string `yaml:"level" json:"level"`
	// BatchRows is the number of rows per Arrow record batch
	BatchRows int64 `yaml:"batch_rows" json:"batch_rows"`
	// Workers bounds parallel compression and column conversion
	Workers int `yaml:"workers" json:"workers"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Loader: DefaultLoader(),
		Logging: logger.Config{
			Level:    "info",
			Encoding: "json",
		},
		Export: ExportConfig{
			Compression: string(compression.None),
			Level:       "default",
			BatchRows:   64 * 1024,
			Workers:     runtime.NumCPU(),
		},
	}
}

// DefaultLoader returns the loader defaults: bounds 100/900/100, mmap on,
// verification off.
func DefaultLoader() LoaderConfig {
	return LoaderConfig{
		MaxFilenameLen: DefaultMaxFilenameLen,
		MaxPathLen:     DefaultMaxPathLen,
		MaxMetaLen:     DefaultMaxMetaLen,
		UseMmap:        true,
		Advise:         "normal",
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	if err := c.Loader.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}

// Validate checks the loader bounds and advice.
func (l *LoaderConfig) Validate() error {
	if l.MaxFilenameLen <= 0 {
		return invalid("loader.max_filename_len must be positive", l.MaxFilenameLen)
	}
	if l.MaxPathLen <= 0 {
		return invalid("loader.max_path_len must be positive", l.MaxPathLen)
	}
	if l.MaxMetaLen <= 0 {
		return invalid("loader.max_meta_len must be positive", l.MaxMetaLen)
	}
	if _, err := mmap.ParseAdvice(l.Advise); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid loader.advise")
	}
	return nil
}

// MmapOptions converts the loader settings into options for mmap.Open.
// The config must be valid.
func (l *LoaderConfig) MmapOptions() []mmap.Option {
	advice, _ := mmap.ParseAdvice(l.Advise)
	return []mmap.Option{mmap.WithMmap(l.UseMmap), mmap.WithAdvice(advice)}
}

// Validate checks the export compression settings.
func (e *ExportConfig) Validate() error {
	if _, err := e.CompressionConfig(); err != nil {
		return err
	}
	if e.BatchRows <= 0 {
		return invalid("export.batch_rows must be positive", e.BatchRows)
	}
	if e.Workers < 0 {
		return invalid("export.workers cannot be negative", e.Workers)
	}
	return nil
}

// CompressionConfig converts the export settings into a compression.Config.
func (e *ExportConfig) CompressionConfig() (compression.Config, error) {
	algo, err := compression.ParseAlgorithm(e.Compression)
	if err != nil {
		return compression.Config{}, err
	}
	level, err := compression.ParseLevel(e.Level)
	if err != nil {
		return compression.Config{}, err
	}
	return compression.Config{Algorithm: algo, Level: level, Concurrency: e.Workers}, nil
}

func invalid(msg string, value interface{}) error {
	return errors.New(errors.ErrorTypeConfig, msg).WithDetail("value", value)
}
