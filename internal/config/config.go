package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath используется, когда путь к конфигу не задан явно.
const DefaultPath = "./config.yaml"

// Config описывает разрешенные параметры эмулятора.
type Config struct {
	VFS      string `yaml:"vfs" toml:"vfs"`
	Log      string `yaml:"log" toml:"log"`
	Script   string `yaml:"script" toml:"script"`
	ErrorLog string `yaml:"error_log,omitempty" toml:"error_log,omitempty"`
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`

	ErrorStore struct {
		Driver string `yaml:"driver" toml:"driver"`
		Path   string `yaml:"path,omitempty" toml:"path,omitempty"`
	} `yaml:"error_store" toml:"error_store"`

	Shell struct {
		Prompt      string `yaml:"prompt" toml:"prompt"`
		HistoryFile string `yaml:"history_file,omitempty" toml:"history_file,omitempty"`
		ExitGraceMS int    `yaml:"exit_grace_ms" toml:"exit_grace_ms"`
		Color       bool   `yaml:"color" toml:"color"`
	} `yaml:"shell" toml:"shell"`
}

// Overrides значения из флагов командной строки; пустые строки не применяются.
type Overrides struct {
	VFS    string
	Log    string
	Script string
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	var cfg Config
	cfg.VFS = "./vfs.tar"
	cfg.Log = "./commits.log"
	cfg.Script = "./start_script.txt"
	cfg.LogLevel = "warn"
	cfg.ErrorStore.Driver = "csv"
	cfg.Shell.Prompt = "> "
	cfg.Shell.ExitGraceMS = 1000
	cfg.Shell.Color = true
	return cfg
}

// Load читает конфиг из YAML или TOML (по расширению) поверх значений по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- путь к конфигу задается доверенным оператором.
	if err != nil {
		return cfg, err
	}
	if len(data) == 0 {
		return cfg, errors.New("config file is empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("decode toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode yaml: %w", err)
		}
	}
	return cfg, nil
}

// Resolve применяет приоритет: флаги > файл > значения по умолчанию.
// Отсутствующий файл по умолчанию допустим, явно заданный файл должен существовать.
func Resolve(path string, o Overrides) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = Default()
	}
	if o.VFS != "" {
		cfg.VFS = o.VFS
	}
	if o.Log != "" {
		cfg.Log = o.Log
	}
	if o.Script != "" {
		cfg.Script = o.Script
	}
	return cfg, cfg.Validate()
}

// Validate проверяет обязательные поля.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Log) == "" {
		return errors.New("log path is empty")
	}
	switch c.ErrorStore.Driver {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("unsupported error store driver %q", c.ErrorStore.Driver)
	}
	if c.Shell.ExitGraceMS < 0 {
		return errors.New("shell.exit_grace_ms must not be negative")
	}
	return nil
}

// ErrorLogPath возвращает путь к хранилищу ошибок; по умолчанию рядом с журналом команд.
func (c Config) ErrorLogPath() string {
	if c.ErrorStore.Path != "" {
		return c.ErrorStore.Path
	}
	if c.ErrorLog != "" {
		return c.ErrorLog
	}
	name := "shell_errors.csv"
	if c.ErrorStore.Driver == "sqlite" {
		name = "shell_errors.db"
	}
	return filepath.Join(filepath.Dir(c.Log), name)
}

// WriteExample создает пример конфига, если файла еще нет. Возвращает true, если файл записан.
func WriteExample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	cfg := Default()
	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return false, fmt.Errorf("encode example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}
