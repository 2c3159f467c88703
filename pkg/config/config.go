package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/xmlsearch/pkg/engine"
	"github.com/rubiojr/xmlsearch/pkg/record"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultItemSelector = "item"
	DefaultSearchParam  = "s"
	DefaultPageSize     = 10
)

type Config struct {
	Source        string            `toml:"source"`
	FetchTimeout  Duration          `toml:"fetch_timeout"`
	ItemSelector  string            `toml:"item_selector"`
	FieldMap      map[string]string `toml:"field_map"`
	DateField     string            `toml:"date_field,omitempty"`
	DateFormat    string            `toml:"date_format,omitempty"`
	SearchFields  []string          `toml:"search_fields"`
	DisplayFields []string          `toml:"display_fields"`
	SearchParam   string            `toml:"search_param"`
	PageSize      int               `toml:"page_size"`
	Pagination    bool              `toml:"pagination"`
	// Highlight is a pointer so an absent key can default to true.
	Highlight *bool           `toml:"highlight,omitempty"`
	Sort      *SortConfig     `toml:"sort,omitempty"`
	Templates TemplatesConfig `toml:"templates"`
}

type SortConfig struct {
	Field     string `toml:"field"`
	Direction string `toml:"direction,omitempty"`
}

// TemplatesConfig holds optional html/template sources that replace the
// default HTML components.
type TemplatesConfig struct {
	Item      string `toml:"item,omitempty"`
	NoResults string `toml:"no_results,omitempty"`
	Error     string `toml:"error,omitempty"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config data and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.FetchTimeout.Duration == 0 {
		c.FetchTimeout = Duration{DefaultFetchTimeout}
	}
	if c.ItemSelector == "" {
		c.ItemSelector = DefaultItemSelector
	}
	if c.SearchParam == "" {
		c.SearchParam = DefaultSearchParam
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.FieldMap == nil {
		c.FieldMap = make(map[string]string)
	}
	if c.Highlight == nil {
		on := true
		c.Highlight = &on
	}
}

// Validate checks the settings a load depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("source is not set")
	}
	if len(c.FieldMap) == 0 {
		return fmt.Errorf("field_map is empty")
	}
	if err := record.FieldMap(c.FieldMap).Validate(c.DateField); err != nil {
		return fmt.Errorf("invalid field_map: %w", err)
	}
	for _, f := range c.SearchFields {
		if _, ok := c.FieldMap[f]; !ok {
			return fmt.Errorf("search field %q is not in field_map", f)
		}
	}
	for _, f := range c.DisplayFields {
		if _, ok := c.FieldMap[f]; !ok {
			return fmt.Errorf("display field %q is not in field_map", f)
		}
	}
	if c.Sort != nil {
		if _, err := engine.ParseDirection(c.Sort.Direction); err != nil {
			return fmt.Errorf("invalid sort: %w", err)
		}
	}
	return nil
}

// HighlightEnabled reports the highlight setting, true when unset.
func (c *Config) HighlightEnabled() bool {
	return c.Highlight == nil || *c.Highlight
}

// DefaultSort returns the configured sort, or nil. An unknown field is kept
// so the engine can report it.
func (c *Config) DefaultSort() *engine.Sort {
	if c.Sort == nil || c.Sort.Field == "" {
		return nil
	}
	dir, err := engine.ParseDirection(c.Sort.Direction)
	if err != nil {
		dir = engine.Ascending
	}
	return &engine.Sort{Field: c.Sort.Field, Direction: dir}
}

// Fields returns the logical field names in lexical order.
func (c *Config) Fields() []string {
	return record.FieldMap(c.FieldMap).Names()
}

// DisplayFieldNames returns the display fields, or every logical field when
// none are configured.
func (c *Config) DisplayFieldNames() []string {
	if len(c.DisplayFields) > 0 {
		return c.DisplayFields
	}
	return c.Fields()
}

// IsRemote reports whether the source is an http(s) URL.
func (c *Config) IsRemote() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample config. When source is
// set it replaces the sample's placeholder.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(c.generateConfigTemplate()), 0644)
}

func (c *Config) generateConfigTemplate() string {
	if c.Source == "" {
		return configTemplate
	}
	return strings.Replace(configTemplate, "/path/to/feed.xml", c.Source, 1)
}

// GetConfigDir returns the configuration directory for xmlsearch
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "xmlsearch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
