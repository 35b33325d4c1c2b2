package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/payload"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	"github.com/prasetyowira/qr-utils/infrastructure/logger"
	"github.com/prasetyowira/qr-utils/infrastructure/qrcode"
	"github.com/prasetyowira/qr-utils/infrastructure/storage"
	"github.com/spf13/viper"
)

const (
	// DirName is the default config directory under the user's home.
	DirName = ".qr-utils"
	// FileName is the config file inside the config directory.
	FileName = "config.json"
	// EnvPrefix prefixes environment overrides, e.g. QRUTILS_SERVER_PORT.
	EnvPrefix = "QRUTILS"

	logsDir    = "logs"
	outputDir  = "output"
	historyDB  = "history.db"
	configType = "json"
)

// Config is the persisted user configuration.
type Config struct {
	QRSettings       qrcode.Settings `mapstructure:"qr_settings"`
	OutputFormat     string          `mapstructure:"output_format"`
	DefaultOutputDir string          `mapstructure:"default_output_dir"`
	VCardDefaults    VCardDefaults   `mapstructure:"vcard_defaults"`
	Server           ServerConfig    `mapstructure:"server"`
	Log              LogConfig       `mapstructure:"log"`

	v       *viper.Viper
	dir     string
	path    string
	created bool
}

type VCardDefaults struct {
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port      int `mapstructure:"port"`
	CacheSize int `mapstructure:"cache_size"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

// defaults lists every addressable key with its built-in value.
func defaults() map[string]interface{} {
	s := qrcode.DefaultSettings()
	return map[string]interface{}{
		"qr_settings.version":          s.Version,
		"qr_settings.error_correction": string(s.ErrorCorrection),
		"qr_settings.box_size":         s.ModuleSize,
		"qr_settings.border":           s.Border,
		"qr_settings.fill_color":       s.FillColor,
		"qr_settings.back_color":       s.BackColor,
		"output_format":                string(storage.FormatPNG),
		"default_output_dir":           "",
		"vcard_defaults.version":       payload.DefaultVCardVersion,
		"server.port":                  8080,
		"server.cache_size":            1000,
		"log.level":                    "info",
		"log.production":               false,
	}
}

// Keys returns the addressable config keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults()))
	for k := range defaults() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultDir returns ~/.qr-utils.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", qrerr.Resource(constant.CtxConfig, "", err)
	}
	return filepath.Join(home, DirName), nil
}

// Load prepares dir (creating it and its logs/ and output/ subdirectories),
// writes the default config file when none exists and reads it back.
// Environment variables override file values.
func Load(dir string) (*Config, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	for _, d := range []string{dir, filepath.Join(dir, logsDir), filepath.Join(dir, outputDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, qrerr.Resource(constant.CtxConfig, d, err)
		}
	}

	path := filepath.Join(dir, FileName)
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType)
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}

	created := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := v.WriteConfigAs(path); err != nil {
			return nil, qrerr.Resource(constant.CtxConfig, path, err)
		}
		created = true
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, qrerr.Resource(constant.CtxConfig, path, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{v: v, dir: dir, path: path, created: created}
	if err := cfg.reload(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) reload() error {
	var next Config
	if err := c.v.Unmarshal(&next); err != nil {
		return qrerr.Resource(constant.CtxConfig, c.path, err)
	}
	if err := next.validate(); err != nil {
		return err
	}
	c.QRSettings = next.QRSettings
	c.OutputFormat = next.OutputFormat
	c.DefaultOutputDir = next.DefaultOutputDir
	c.VCardDefaults = next.VCardDefaults
	c.Server = next.Server
	c.Log = next.Log
	return nil
}

func (c *Config) validate() error {
	settings, err := c.QRSettings.Normalize()
	if err != nil {
		return err
	}
	c.QRSettings = settings
	if _, err := storage.ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return qrerr.Validation(constant.CtxConfig, "server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// Get returns the value stored under a dotted key.
func (c *Config) Get(key string) (interface{}, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !c.v.IsSet(key) {
		return nil, qrerr.Validation(constant.CtxConfig, "unknown config key %q", key)
	}
	return c.v.Get(key), nil
}

// Set parses value according to the key's type, applies it and persists the
// config file. Environment overrides are never written back.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	def, ok := defaults()[key]
	if !ok {
		return qrerr.Validation(constant.CtxConfig, "unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}

	typed, err := convert(key, def, value)
	if err != nil {
		return err
	}

	prev := c.v.Get(key)
	c.v.Set(key, typed)
	if err := c.reload(); err != nil {
		c.v.Set(key, prev)
		return err
	}

	// Persist from a file-only view so env overrides stay out of the file.
	fileView := viper.New()
	fileView.SetConfigFile(c.path)
	fileView.SetConfigType(configType)
	if err := fileView.ReadInConfig(); err != nil {
		return qrerr.Resource(constant.CtxConfig, c.path, err)
	}
	fileView.Set(key, typed)
	if err := fileView.WriteConfigAs(c.path); err != nil {
		return qrerr.Persistence(constant.CtxConfig, c.path, err)
	}

	logger.Info("Configuration updated", logger.LoggerInfo{
		ContextFunction: constant.CtxConfig,
		Data: map[string]interface{}{
			constant.DataConfigKey: key,
			constant.DataPath:      c.path,
		},
	})
	return nil
}

func convert(key string, def interface{}, value string) (interface{}, error) {
	switch def.(type) {
	case int:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, qrerr.Validation(constant.CtxConfig, "%s must be an integer, got %q", key, value)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, qrerr.Validation(constant.CtxConfig, "%s must be true or false, got %q", key, value)
		}
		return b, nil
	default:
		return value, nil
	}
}

// Dir is the config directory.
func (c *Config) Dir() string { return c.dir }

// Path is the config file.
func (c *Config) Path() string { return c.path }

// Created reports whether Load wrote a fresh default file.
func (c *Config) Created() bool { return c.created }

// LogDir receives the daily log files.
func (c *Config) LogDir() string { return filepath.Join(c.dir, logsDir) }

// HistoryPath is the SQLite history database.
func (c *Config) HistoryPath() string { return filepath.Join(c.dir, historyDB) }

// OutputDir is where generated images go when no output path is given.
func (c *Config) OutputDir() string {
	if c.DefaultOutputDir != "" {
		return expandHome(c.DefaultOutputDir)
	}
	return filepath.Join(c.dir, outputDir)
}

// Format is the default image format.
func (c *Config) Format() storage.Format {
	f, err := storage.ParseFormat(c.OutputFormat)
	if err != nil {
		return storage.FormatPNG
	}
	return f
}

// LoggerOptions maps the log section onto logger options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Production: c.Log.Production,
		Level:      c.Log.Level,
		Dir:        c.LogDir(),
	}
}

// Address is the listen address for serve mode.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
