package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "STUDYTIME"
	dirName   = ".studytime"
	fileName  = "config.yaml"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RuntimeConfig struct {
	Mode      string          `yaml:"mode" mapstructure:"mode"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Remote    RemoteConfig    `yaml:"remote" mapstructure:"remote"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Focus     FocusConfig     `yaml:"focus" mapstructure:"focus"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Toast     ToastConfig     `yaml:"toast" mapstructure:"toast"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type RemoteConfig struct {
	URL            string `yaml:"url" mapstructure:"url"`
	Token          string `yaml:"token" mapstructure:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	DB   string `yaml:"db" mapstructure:"db"`
}

type FocusConfig struct {
	WorkMinutes  int `yaml:"work_minutes" mapstructure:"work_minutes"`
	BreakMinutes int `yaml:"break_minutes" mapstructure:"break_minutes"`
}

type AnalyticsConfig struct {
	WindowDays int `yaml:"window_days" mapstructure:"window_days"`
}

type ToastConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

type SchedulerConfig struct {
	Buffer int `yaml:"buffer" mapstructure:"buffer"`
}

type LogConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	dir := Dir()
	return RuntimeConfig{
		Mode: ModeLocal,
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    filepath.Join(dir, "tasks.json"),
		},
		Remote: RemoteConfig{TimeoutSeconds: 10},
		Server: ServerConfig{
			Addr: "127.0.0.1:8000",
			DB:   filepath.Join(dir, "server.db"),
		},
		Focus:     FocusConfig{WorkMinutes: 25, BreakMinutes: 5},
		Analytics: AnalyticsConfig{WindowDays: 7},
		Toast:     ToastConfig{TTLSeconds: 4},
		Scheduler: SchedulerConfig{Buffer: 64},
	}
}

// Dir is the per-user state directory, ~/.studytime.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirName
	}
	return filepath.Join(home, dirName)
}

func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Load layers defaults, the YAML file and STUDYTIME_* environment
// variables, in that order. An empty path falls back to DefaultPath and a
// missing default file is not an error.
func Load(path string) (RuntimeConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultRuntimeConfig())

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return RuntimeConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d RuntimeConfig) {
	v.SetDefault("mode", d.Mode)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("remote.url", d.Remote.URL)
	v.SetDefault("remote.token", d.Remote.Token)
	v.SetDefault("remote.timeout_seconds", d.Remote.TimeoutSeconds)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.db", d.Server.DB)
	v.SetDefault("focus.work_minutes", d.Focus.WorkMinutes)
	v.SetDefault("focus.break_minutes", d.Focus.BreakMinutes)
	v.SetDefault("analytics.window_days", d.Analytics.WindowDays)
	v.SetDefault("toast.ttl_seconds", d.Toast.TTLSeconds)
	v.SetDefault("scheduler.buffer", d.Scheduler.Buffer)
	v.SetDefault("log.file", d.Log.File)
}

func (c RuntimeConfig) Validate() error {
	switch c.Mode {
	case ModeLocal:
	case ModeRemote:
		if strings.TrimSpace(c.Remote.URL) == "" {
			return fmt.Errorf("%w: remote mode needs remote.url", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: mode %q (want local or remote)", ErrInvalidConfig, c.Mode)
	}
	if !slices.Contains([]string{BackendFile, BackendSQLite}, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q (want file or sqlite)", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Focus.WorkMinutes <= 0 || c.Focus.BreakMinutes <= 0 {
		return fmt.Errorf("%w: focus minutes must be positive", ErrInvalidConfig)
	}
	if c.Analytics.WindowDays <= 0 {
		return fmt.Errorf("%w: analytics.window_days must be positive", ErrInvalidConfig)
	}
	if c.Toast.TTLSeconds <= 0 || c.Scheduler.Buffer <= 0 {
		return fmt.Errorf("%w: toast.ttl_seconds and scheduler.buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c RuntimeConfig) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

func (c RuntimeConfig) ToastTTL() time.Duration {
	return time.Duration(c.Toast.TTLSeconds) * time.Second
}

func (c RuntimeConfig) FocusWork() time.Duration {
	return time.Duration(c.Focus.WorkMinutes) * time.Minute
}

func (c RuntimeConfig) FocusBreak() time.Duration {
	return time.Duration(c.Focus.BreakMinutes) * time.Minute
}

// Redacted hides the remote token for display.
func (c RuntimeConfig) Redacted() RuntimeConfig {
	if c.Remote.Token != "" {
		c.Remote.Token = "********"
	}
	return c
}

func Marshal(c RuntimeConfig) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes c as YAML, refusing to replace an existing file unless
// overwrite is set.
func WriteFile(path string, c RuntimeConfig, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	content := append([]byte("# studytime configuration\n"), payload...)
	return os.WriteFile(path, content, 0o600)
}
