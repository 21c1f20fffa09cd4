package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"

	SettingsFileName = "settings.yaml"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the per-user knobs outside the engine balance.
type Settings struct {
	DataDir     string `yaml:"data_dir"`
	LogLevel    string `yaml:"log_level"`
	Store       string `yaml:"store"`
	Compress    bool   `yaml:"compress"`
	ContentPath string `yaml:"content_path,omitempty"`
	BalancePath string `yaml:"balance_path,omitempty"`
	ListenAddr  string `yaml:"listen_addr"`
}

func Default() Settings {
	dir, err := DefaultDataDir()
	if err != nil {
		dir = "."
	}
	return Settings{
		DataDir:    dir,
		LogLevel:   "info",
		Store:      StoreFile,
		Compress:   true,
		ListenAddr: "127.0.0.1:7845",
	}
}

// DefaultDataDir is the per-user directory holding settings and saves.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", errors.New("config directory not found")
	}
	return filepath.Join(base, "UnderTheShadow"), nil
}

// Load reads a settings file over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(cfg.DataDir, SettingsFileName)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Settings{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// FromEnv applies SHADOW_* overrides on top of cfg.
func FromEnv(cfg Settings) Settings {
	if val := getEnv("SHADOW_DATA_DIR"); val != "" {
		cfg.DataDir = val
	}
	if val := getEnv("SHADOW_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := getEnv("SHADOW_STORE"); val != "" {
		cfg.Store = strings.ToLower(val)
	}
	if val, ok := getEnvBool("SHADOW_COMPRESS"); ok {
		cfg.Compress = val
	}
	if val := getEnv("SHADOW_CONTENT"); val != "" {
		cfg.ContentPath = val
	}
	if val := getEnv("SHADOW_BALANCE"); val != "" {
		cfg.BalancePath = val
	}
	if val := getEnv("SHADOW_LISTEN"); val != "" {
		cfg.ListenAddr = val
	}
	return cfg
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.DataDir) == "" {
		return fmt.Errorf("%w: data dir is empty", ErrInvalidSettings)
	}
	switch s.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidSettings, s.Store)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// Save writes settings atomically: temp file in the same dir, then rename.
func Save(path string, cfg Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "settings-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvBool(key string) (bool, bool) {
	val := getEnv(key)
	if val == "" {
		return false, false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}
