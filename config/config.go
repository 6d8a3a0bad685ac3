// Package config loads generation settings from defaults, a config file,
// KT2TS_* environment variables and command-line flags, in that order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classpath"
	"github.com/dhamidi/kt2ts/extract"
	"github.com/dhamidi/kt2ts/render"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "KT2TS"
	FileName  = "kt2ts"
)

// ErrInvalidConfig marks settings that cannot drive a run.
var ErrInvalidConfig = errors.New("invalid configuration")

// TypeMappingEntry is one substitution. Mappings are lists rather than maps
// because viper lower-cases map keys and splits them on dots.
type TypeMappingEntry struct {
	Source string `mapstructure:"source" yaml:"source"`
	Target string `mapstructure:"target" yaml:"target"`
}

type Config struct {
	Classpath        []string           `mapstructure:"classpath"`
	Dependencies     []string           `mapstructure:"dependencies"`
	ClassPatterns    []string           `mapstructure:"classPatterns"`
	LocalOnly        bool               `mapstructure:"localOnly"`
	TypeMapping      []TypeMappingEntry `mapstructure:"typeMapping"`
	MappingFile      string             `mapstructure:"mappingFile"`
	TemplateDir      string             `mapstructure:"templateDir"`
	TemplateFileName string             `mapstructure:"templateFileName"`
	OutputFile       string             `mapstructure:"outputFile"`
	Overwrite        bool               `mapstructure:"overwrite"`
	CacheSize        int                `mapstructure:"cacheSize"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-"`

	mapping extract.TypeMapping
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("classpath", []string{})
	v.SetDefault("dependencies", []string{})
	v.SetDefault("classPatterns", []string{})
	v.SetDefault("localOnly", true)
	v.SetDefault("typeMapping", []TypeMappingEntry{})
	v.SetDefault("mappingFile", "")
	v.SetDefault("templateDir", "")
	v.SetDefault("templateFileName", render.DefaultTemplateName)
	v.SetDefault("outputFile", "")
	v.SetDefault("overwrite", false)
	v.SetDefault("cacheSize", classpath.DefaultCacheSize)
}

// NewViper prepares a viper instance. With an empty configFile it looks for
// kt2ts.{yaml,yml,toml,json} in the working directory and carries on
// without one.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}
	return v, nil
}

// Find returns the config file in dir, or "" when there is none.
func Find(dir string) string {
	for _, ext := range viper.SupportedExts {
		path := filepath.Join(dir, FileName+"."+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load decodes v into a Config and resolves the type mapping: defaults,
// then the mapping file, then typeMapping entries.
func Load(v *viper.Viper) (*Config, error) {
	return load(v, "")
}

// LoadRelative is Load with relative paths taken from base rather than the
// working directory.
func LoadRelative(v *viper.Viper, base string) (*Config, error) {
	return load(v, base)
}

func load(v *viper.Viper, base string) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	c.ConfigFile = v.ConfigFileUsed()
	if base != "" {
		c.Rebase(base)
	}

	mapping := extract.DefaultTypeMapping()
	if c.MappingFile != "" {
		fromFile, err := LoadMappingFile(c.MappingFile)
		if err != nil {
			return nil, err
		}
		mapping = mapping.Merge(fromFile)
	}
	entries := extract.TypeMapping{}
	for _, e := range c.TypeMapping {
		if e.Source == "" || e.Target == "" {
			return nil, errors.Mark(errors.Newf("typeMapping entry %+v needs both source and target", e), ErrInvalidConfig)
		}
		entries[e.Source] = e.Target
	}
	c.mapping = mapping.Merge(entries)
	return &c, nil
}

// LoadMappingFile reads a YAML map of source fullName to target name.
func LoadMappingFile(path string) (extract.TypeMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mapping file %s", path)
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to parse mapping file %s", path), ErrInvalidConfig)
	}
	return extract.TypeMapping(m), nil
}

// ParseMappingFlag parses "source=target" pairs given on the command line.
func ParseMappingFlag(pairs []string) ([]TypeMappingEntry, error) {
	var out []TypeMappingEntry
	for _, p := range pairs {
		source, target, ok := strings.Cut(p, "=")
		if !ok || source == "" || target == "" {
			return nil, errors.Mark(errors.Newf("invalid mapping %q (expected source=target)", p), ErrInvalidConfig)
		}
		out = append(out, TypeMappingEntry{Source: strings.TrimSpace(source), Target: strings.TrimSpace(target)})
	}
	return out, nil
}

// Validate checks the settings a generation run needs.
func (c *Config) Validate() error {
	if len(c.Classpath) == 0 {
		return errors.WithHint(
			errors.Mark(errors.New("no classpath configured"), ErrInvalidConfig),
			"pass --classpath with the directory of compiled classes or set classpath in kt2ts.yaml",
		)
	}
	if c.CacheSize < 0 {
		return errors.Mark(errors.Newf("cacheSize must not be negative, got %d", c.CacheSize), ErrInvalidConfig)
	}
	return nil
}

func (c *Config) TypeMap() extract.TypeMapping {
	if c.mapping == nil {
		return extract.DefaultTypeMapping()
	}
	return c.mapping
}

// Roots lists local build output first; dependencies are scanned only when
// localOnly is off.
func (c *Config) Roots() []classpath.Root {
	roots := make([]classpath.Root, 0, len(c.Classpath)+len(c.Dependencies))
	for _, p := range c.Classpath {
		roots = append(roots, classpath.Root{Path: p, Scan: true})
	}
	for _, p := range c.Dependencies {
		roots = append(roots, classpath.Root{Path: p, Scan: !c.LocalOnly})
	}
	return roots
}

func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		Patterns:    c.ClassPatterns,
		TypeMapping: c.TypeMap(),
		CacheSize:   c.CacheSize,
	}
}

// Rebase makes relative paths relative to base instead of the working
// directory.
func (c *Config) Rebase(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i, p := range c.Classpath {
		c.Classpath[i] = abs(p)
	}
	for i, p := range c.Dependencies {
		c.Dependencies[i] = abs(p)
	}
	c.MappingFile = abs(c.MappingFile)
	c.TemplateDir = abs(c.TemplateDir)
	c.OutputFile = abs(c.OutputFile)
}
