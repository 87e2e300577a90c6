// Package config loads the todor configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/todor/pkg/timeutil"
)

const (
	DefaultRefreshInterval = 60 * time.Second
	DefaultToastTTL        = 10 * time.Second
	DefaultMaxWidth        = 50
	DefaultJournalPath     = "~/.todor/journal"
)

type JournalConfig struct {
	Name string `mapstructure:"name" toml:"name"`
	Path string `mapstructure:"path" toml:"path"`
}

type TasksConfig struct {
	Name string `mapstructure:"name" toml:"name"`
	Path string `mapstructure:"path" toml:"path"`
}

type TodoistConfig struct {
	Name      string `mapstructure:"name" toml:"name"`
	Project   string `mapstructure:"project" toml:"project,omitempty"`
	Token     string `mapstructure:"token" toml:"-"`
	TokenFile string `mapstructure:"token_file" toml:"token_file,omitempty"`
}

type GoogleCalConfig struct {
	Name        string `mapstructure:"name" toml:"name"`
	Calendar    string `mapstructure:"calendar" toml:"calendar,omitempty"`
	Credentials string `mapstructure:"credentials" toml:"credentials"`
	Token       string `mapstructure:"token" toml:"token"`
	Days        int    `mapstructure:"days" toml:"days,omitempty"`
}

// Config is the effective configuration after defaults are applied.
type Config struct {
	// File is the config file that was read, empty when none was found.
	File string

	DefaultBackend  string
	RefreshInterval time.Duration
	ToastTTL        time.Duration
	MaxWidth        int
	LogFile         string
	Trace           bool

	Journals  []JournalConfig
	Tasks     []TasksConfig
	Todoist   []TodoistConfig
	GoogleCal []GoogleCalConfig
}

// Load reads file when given, otherwise looks for .todor.{yaml,toml,json} in
// $TODOR_CONFIG_PATH, ./ and ~/.config/todor. TODOR_* variables override the
// scalar keys.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("refresh_interval", "60s")
	v.SetDefault("toast_ttl", "10s")
	v.SetDefault("max_width", DefaultMaxWidth)
	v.SetDefault("trace", false)
	v.SetEnvPrefix("TODOR")
	v.AutomaticEnv()

	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".todor")
		if override := os.Getenv("TODOR_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "todor"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	c := &Config{
		File:           v.ConfigFileUsed(),
		DefaultBackend: v.GetString("default_backend"),
		MaxWidth:       v.GetInt("max_width"),
		LogFile:        v.GetString("log_file"),
		Trace:          v.GetBool("trace"),
	}
	var err error
	if c.RefreshInterval, err = timeutil.ParseDuration(v.GetString("refresh_interval"), DefaultRefreshInterval); err != nil {
		return nil, fmt.Errorf("config: refresh_interval: %w", err)
	}
	if c.ToastTTL, err = timeutil.ParseDuration(v.GetString("toast_ttl"), DefaultToastTTL); err != nil {
		return nil, fmt.Errorf("config: toast_ttl: %w", err)
	}
	if c.MaxWidth <= 0 {
		c.MaxWidth = DefaultMaxWidth
	}

	for key, target := range map[string]interface{}{
		"journal":    &c.Journals,
		"tasks":      &c.Tasks,
		"todoist":    &c.Todoist,
		"google_cal": &c.GoogleCal,
	} {
		if err := v.UnmarshalKey(key, target); err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
	}

	if err := c.expand(); err != nil {
		return nil, err
	}
	if c.BackendCount() == 0 {
		c.Journals = []JournalConfig{{Name: "default", Path: mustExpand(DefaultJournalPath)}}
	}
	return c, nil
}

// expand resolves ~ in every path and fills in missing names.
func (c *Config) expand() error {
	var err error
	expand := func(p *string) {
		if err != nil || *p == "" {
			return
		}
		*p, err = homedir.Expand(*p)
	}

	expand(&c.LogFile)
	for i := range c.Journals {
		expand(&c.Journals[i].Path)
		if c.Journals[i].Name == "" {
			c.Journals[i].Name = "default"
		}
	}
	for i := range c.Tasks {
		expand(&c.Tasks[i].Path)
		if c.Tasks[i].Name == "" {
			c.Tasks[i].Name = "default"
		}
	}
	for i := range c.Todoist {
		expand(&c.Todoist[i].TokenFile)
	}
	for i := range c.GoogleCal {
		expand(&c.GoogleCal[i].Credentials)
		expand(&c.GoogleCal[i].Token)
	}
	if err != nil {
		return fmt.Errorf("config: expand path: %w", err)
	}
	return nil
}

func (c *Config) BackendCount() int {
	return len(c.Journals) + len(c.Tasks) + len(c.Todoist) + len(c.GoogleCal)
}

func mustExpand(p string) string {
	out, err := homedir.Expand(p)
	if err != nil {
		return strings.TrimPrefix(p, "~/")
	}
	return out
}

type fileView struct {
	DefaultBackend  string            `toml:"default_backend,omitempty"`
	RefreshInterval string            `toml:"refresh_interval"`
	ToastTTL        string            `toml:"toast_ttl"`
	MaxWidth        int               `toml:"max_width"`
	LogFile         string            `toml:"log_file,omitempty"`
	Trace           bool              `toml:"trace"`
	Journals        []JournalConfig   `toml:"journal,omitempty"`
	Tasks           []TasksConfig     `toml:"tasks,omitempty"`
	Todoist         []TodoistConfig   `toml:"todoist,omitempty"`
	GoogleCal       []GoogleCalConfig `toml:"google_cal,omitempty"`
}

// WriteTOML prints the effective configuration. Inline Todoist tokens are
// never printed.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(fileView{
		DefaultBackend:  c.DefaultBackend,
		RefreshInterval: timeutil.FormatDuration(c.RefreshInterval),
		ToastTTL:        timeutil.FormatDuration(c.ToastTTL),
		MaxWidth:        c.MaxWidth,
		LogFile:         c.LogFile,
		Trace:           c.Trace,
		Journals:        c.Journals,
		Tasks:           c.Tasks,
		Todoist:         c.Todoist,
		GoogleCal:       c.GoogleCal,
	})
}
