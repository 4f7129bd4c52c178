package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"weft/internal/format"
)

// FormatConfig is the [format] section of weft.toml. Zero values mean
// "use the built-in default".
type FormatConfig struct {
	IndentWidth       int `toml:"indent_width"`
	WrapThreshold     int `toml:"wrap_threshold"`
	MacroIndentOffset int `toml:"macro_indent_offset"`
}

// Manifest describes a project's weft.toml.
type Manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Format FormatConfig `toml:"format"`
}

// LoadManifest parses weft.toml at path.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return m, nil
}

// Options converts the [format] section into formatter options; unset keys
// fall through to the formatter defaults.
func (c FormatConfig) Options() format.Options {
	return format.Options{
		IndentWidth:       c.IndentWidth,
		WrapThreshold:     c.WrapThreshold,
		MacroIndentOffset: c.MacroIndentOffset,
	}
}

// LoadOptions walks up from startDir and returns formatter options from the
// nearest manifest, or zero options when no manifest exists.
func LoadOptions(startDir string) (format.Options, error) {
	path, ok, err := FindWeftToml(startDir)
	if err != nil || !ok {
		return format.Options{}, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return format.Options{}, err
	}
	return m.Format.Options(), nil
}

// starterManifest is what `weft init` writes.
const starterManifest = `[package]
name = %q

[format]
indent_width = 2
wrap_threshold = 80
macro_indent_offset = -3
`

// WriteStarterManifest creates weft.toml in dir. It refuses to overwrite an
// existing manifest.
func WriteStarterManifest(dir, name string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	content := fmt.Sprintf(starterManifest, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
