package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/xmlpull/pkg/xmllex"
	"github.com/jacoelho/xmlpull/pkg/xmlnorm"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "xmlnorm.yaml", `
normalize:
  trim_whitespace: true
  ignore_comments: false
output:
  format: xml
limits:
  max_depth: 32
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	norm := cfg.NormalizerConfig()
	assert.True(t, norm.TrimWhitespace())
	assert.False(t, norm.IgnoreComments())
	assert.True(t, norm.MergeSequentialCharacters(), "unset options keep defaults")
	assert.Equal(t, "xml", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)

	opts := xmllex.JoinOptions(cfg.LexerOptions()...)
	depth, ok := opts.MaxDepthValue()
	assert.True(t, ok)
	assert.Equal(t, 32, depth)
	_, ok = opts.MaxAttrsValue()
	assert.False(t, ok)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "xmlnorm.toml", `
[normalize]
cdata_to_characters = true
whitespace_to_characters = true
merge_sequential_characters = false

[output]
color = "never"

[limits]
max_token_size = 1024
max_attrs = 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	want := xmlnorm.NewConfig().
		WithCDataToCharacters(true).
		WithWhitespaceToCharacters(true).
		WithMergeSequentialCharacters(false)
	assert.Equal(t, want, cfg.NormalizerConfig())
	assert.Equal(t, "events", cfg.Output.Format)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Len(t, cfg.LexerOptions(), 2)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"unknown extension", "cfg.json", `{}`, ErrUnknownFileType},
		{"bad format", "cfg.yaml", "output:\n  format: json\n", ErrInvalidFormat},
		{"bad color", "cfg.yml", "output:\n  color: rainbow\n", ErrInvalidColor},
		{"negative limit", "cfg.toml", "[limits]\nmax_depth = -1\n", ErrInvalidLimit},
		{"unknown toml key", "cfg.toml", "[normalize]\ntrim = true\n", ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadUnknownYAMLKey(t *testing.T) {
	_, err := Load(writeFile(t, "cfg.yaml", "normalize:\n  trim: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseEmptyYAML(t *testing.T) {
	cfg, err := Parse(nil, FileYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, xmlnorm.NewConfig(), cfg.NormalizerConfig())
	assert.Empty(t, cfg.LexerOptions())
}

func TestEffectiveRoundTrip(t *testing.T) {
	norm := xmlnorm.NewConfig().WithTrimWhitespace(true)
	eff := Effective(Default(), norm)

	data, err := yaml.Marshal(eff)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trim_whitespace: true")
	assert.Contains(t, string(data), "ignore_comments: true")

	back, err := Parse(data, FileYAML)
	require.NoError(t, err)
	assert.Equal(t, norm, back.NormalizerConfig())
}
