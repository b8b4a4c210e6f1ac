// Package cliconfig loads xmlnorm command configuration from YAML or TOML files.
package cliconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/xmlpull/internal/eventfmt"
	"github.com/jacoelho/xmlpull/pkg/xmllex"
	"github.com/jacoelho/xmlpull/pkg/xmlnorm"
)

// Configuration validation errors.
var (
	ErrUnknownFileType = errors.New("config file must have a .yaml, .yml or .toml extension")
	ErrInvalidFormat   = errors.New("output.format must be 'events' or 'xml'")
	ErrInvalidColor    = errors.New("output.color must be one of: auto, always, never")
	ErrInvalidLimit    = errors.New("limits must be non-negative")
	ErrUnknownKey      = errors.New("unknown configuration key")
)

// FileType identifies the syntax of a configuration file.
type FileType string

const (
	FileYAML FileType = "yaml"
	FileTOML FileType = "toml"
)

// Config is the complete command configuration.
type Config struct {
	Normalize NormalizeConfig `yaml:"normalize" toml:"normalize"`
	Output    OutputConfig    `yaml:"output" toml:"output"`
	Limits    LimitsConfig    `yaml:"limits" toml:"limits"`
}

// NormalizeConfig mirrors the xmlnorm options. Nil fields keep the default.
type NormalizeConfig struct {
	TrimWhitespace            *bool `yaml:"trim_whitespace,omitempty" toml:"trim_whitespace,omitempty"`
	WhitespaceToCharacters    *bool `yaml:"whitespace_to_characters,omitempty" toml:"whitespace_to_characters,omitempty"`
	CDataToCharacters         *bool `yaml:"cdata_to_characters,omitempty" toml:"cdata_to_characters,omitempty"`
	IgnoreComments            *bool `yaml:"ignore_comments,omitempty" toml:"ignore_comments,omitempty"`
	MergeSequentialCharacters *bool `yaml:"merge_sequential_characters,omitempty" toml:"merge_sequential_characters,omitempty"`
}

// OutputConfig selects how events are rendered.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
	Color  string `yaml:"color" toml:"color"`
}

// LimitsConfig bounds the tokenizer. Zero means unlimited.
type LimitsConfig struct {
	MaxDepth     int `yaml:"max_depth" toml:"max_depth"`
	MaxAttrs     int `yaml:"max_attrs" toml:"max_attrs"`
	MaxTokenSize int `yaml:"max_token_size" toml:"max_token_size"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Format: string(eventfmt.FormatEvents),
			Color:  string(eventfmt.ColorAuto),
		},
	}
}

// Load reads the file at path, detecting its syntax from the extension.
func Load(path string) (Config, error) {
	fileType, err := DetectFileType(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data, fileType)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// DetectFileType maps a file extension to its syntax.
func DetectFileType(path string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileYAML, nil
	case ".toml":
		return FileTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFileType, path)
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte, fileType FileType) (Config, error) {
	cfg := Default()
	switch fileType {
	case FileYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case FileTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownKey, undecoded[0].String())
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFileType, fileType)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks output settings and limits.
func (c *Config) Validate() error {
	if _, err := eventfmt.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if _, err := eventfmt.ParseColorMode(c.Output.Color); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidColor, err)
	}
	if c.Limits.MaxDepth < 0 || c.Limits.MaxAttrs < 0 || c.Limits.MaxTokenSize < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// NormalizerConfig builds the xmlnorm configuration, starting from its defaults.
func (c *Config) NormalizerConfig() xmlnorm.Config {
	cfg := xmlnorm.NewConfig()
	n := c.Normalize
	if n.TrimWhitespace != nil {
		cfg = cfg.WithTrimWhitespace(*n.TrimWhitespace)
	}
	if n.WhitespaceToCharacters != nil {
		cfg = cfg.WithWhitespaceToCharacters(*n.WhitespaceToCharacters)
	}
	if n.CDataToCharacters != nil {
		cfg = cfg.WithCDataToCharacters(*n.CDataToCharacters)
	}
	if n.IgnoreComments != nil {
		cfg = cfg.WithIgnoreComments(*n.IgnoreComments)
	}
	if n.MergeSequentialCharacters != nil {
		cfg = cfg.WithMergeSequentialCharacters(*n.MergeSequentialCharacters)
	}
	return cfg
}

// LexerOptions returns tokenizer options for the non-zero limits.
func (c *Config) LexerOptions() []xmllex.Options {
	var opts []xmllex.Options
	if c.Limits.MaxDepth > 0 {
		opts = append(opts, xmllex.MaxDepth(c.Limits.MaxDepth))
	}
	if c.Limits.MaxAttrs > 0 {
		opts = append(opts, xmllex.MaxAttrs(c.Limits.MaxAttrs))
	}
	if c.Limits.MaxTokenSize > 0 {
		opts = append(opts, xmllex.MaxTokenSize(c.Limits.MaxTokenSize))
	}
	return opts
}

// Effective returns a copy with every normalize option filled in from cfg.
func Effective(c Config, cfg xmlnorm.Config) Config {
	out := c
	out.Normalize = NormalizeConfig{
		TrimWhitespace:            boolPtr(cfg.TrimWhitespace()),
		WhitespaceToCharacters:    boolPtr(cfg.WhitespaceToCharacters()),
		CDataToCharacters:         boolPtr(cfg.CDataToCharacters()),
		IgnoreComments:            boolPtr(cfg.IgnoreComments()),
		MergeSequentialCharacters: boolPtr(cfg.MergeSequentialCharacters()),
	}
	return out
}

func boolPtr(v bool) *bool {
	return &v
}
