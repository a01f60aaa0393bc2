// Package config loads csgtree settings from defaults, an optional
// csgtree.yaml, CSGTREE_* environment variables and bound command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/chazu/csgtree/internal/logging"
	"github.com/chazu/csgtree/pkg/engine"
	"github.com/chazu/csgtree/pkg/geometry"
	"github.com/chazu/csgtree/pkg/kernel/sdfx"
)

const (
	configBaseName   = "csgtree"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "CSGTREE"

	KernelKey       = "kernel"
	MeshCellsKey    = "mesh.cells"
	MeshSegmentsKey = "mesh.segments"
	EvalTimeoutKey  = "eval.timeout"
	WorkersKey      = "workers"
	OutputFormatKey = "output.format"

	LogFilenameKey   = "log.filename"
	LogLevelKey      = "log.level"
	LogMaxSizeKey    = "log.max_size"
	LogMaxBackupsKey = "log.max_backups"
	LogMaxAgeKey     = "log.max_age"
	LogCompressKey   = "log.compress"

	defaultKernel       = KernelSdfx
	defaultWorkers      = 0
	defaultOutputFormat = FormatText

	defaultLogFilename   = ""
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// Kernel names.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrInvalid is wrapped by every validation failure of Load.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved configuration.
type Config struct {
	Kernel       string
	MeshCells    int
	Segments     int
	EvalTimeout  time.Duration
	Workers      int
	OutputFormat string
	Log          Log
}

// Log holds the logging settings.
type Log struct {
	Filename   string
	Level      slog.Level
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// LoggingOptions converts the log settings for logging.New.
func (l Log) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      l.Level,
		Filename:   l.Filename,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

// New returns a viper instance carrying the defaults and the environment
// binding. Flags are bound to it by the caller before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configFolderPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KernelKey, defaultKernel)
	v.SetDefault(MeshCellsKey, sdfx.DefaultMeshCells)
	v.SetDefault(MeshSegmentsKey, geometry.DefaultSegments)
	v.SetDefault(EvalTimeoutKey, engine.EvalTimeout.String())
	v.SetDefault(WorkersKey, defaultWorkers)
	v.SetDefault(OutputFormatKey, defaultOutputFormat)

	v.SetDefault(LogFilenameKey, defaultLogFilename)
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(LogMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(LogMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(LogMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(LogCompressKey, defaultLogCompress)
	return v
}

// ReadFile merges a config file into v. An empty path searches the
// working directory for csgtree.yaml, whose absence is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", filepath.Join(configFolderPath, configFileName), err)
	}
	return nil
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Kernel:       strings.ToLower(strings.TrimSpace(v.GetString(KernelKey))),
		MeshCells:    v.GetInt(MeshCellsKey),
		Segments:     v.GetInt(MeshSegmentsKey),
		EvalTimeout:  v.GetDuration(EvalTimeoutKey),
		Workers:      v.GetInt(WorkersKey),
		OutputFormat: strings.ToLower(strings.TrimSpace(v.GetString(OutputFormatKey))),
		Log: Log{
			Filename:   v.GetString(LogFilenameKey),
			Level:      logging.ParseLevel(v.GetString(LogLevelKey), slog.LevelInfo),
			MaxSize:    v.GetInt(LogMaxSizeKey),
			MaxBackups: v.GetInt(LogMaxBackupsKey),
			MaxAge:     v.GetInt(LogMaxAgeKey),
			Compress:   v.GetBool(LogCompressKey),
		},
	}

	switch cfg.Kernel {
	case KernelSdfx, KernelManifold:
	default:
		return Config{}, fmt.Errorf("%s %q: want %s or %s: %w", KernelKey, cfg.Kernel, KernelSdfx, KernelManifold, ErrInvalid)
	}
	switch cfg.OutputFormat {
	case FormatText, FormatYAML, FormatJSON:
	default:
		return Config{}, fmt.Errorf("%s %q: want %s, %s or %s: %w", OutputFormatKey, cfg.OutputFormat, FormatText, FormatYAML, FormatJSON, ErrInvalid)
	}
	if cfg.MeshCells <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d: %w", MeshCellsKey, cfg.MeshCells, ErrInvalid)
	}
	if cfg.Segments < 3 {
		return Config{}, fmt.Errorf("%s must be at least 3, got %d: %w", MeshSegmentsKey, cfg.Segments, ErrInvalid)
	}
	if cfg.EvalTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s: %w", EvalTimeoutKey, cfg.EvalTimeout, ErrInvalid)
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %d: %w", WorkersKey, cfg.Workers, ErrInvalid)
	}
	return cfg, nil
}
