// Package config reads the YAML configuration of the command line tools.
package config

import (
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Pro7ech/ntt2x2/logger"
	"github.com/Pro7ech/ntt2x2/pipeline"
)

// DefaultConfigFiles are the file names looked up by [FindDefaultConfigPath].
var DefaultConfigFiles = []string{"ntt2x2.yml", "ntt2x2.yaml"}

// ErrNoConfigFile is returned when no configuration file can be found.
var ErrNoConfigFile = errors.New("no configuration file found")

// Config is the configuration of a run of the tools.
type Config struct {
	Parameters pipeline.ParametersLiteral `yaml:"parameters"`

	// Workers is the number of engines transforming polynomials concurrently.
	Workers int `yaml:"workers"`

	// Seed keys the sampling of the input polynomials.
	Seed string `yaml:"seed"`

	LogLevel string `yaml:"loglevel"`
	JSONLogs bool   `yaml:"json_logs"`

	sourceFile string
}

// Default returns the configuration used when no file is given:
// Falcon-512 with the default pipeline settings.
func Default() Config {
	return Config{
		Parameters: pipeline.ParametersLiteral{LogN: 9},
		Workers:    runtime.NumCPU(),
		Seed:       "ntt2x2",
		LogLevel:   "info",
	}
}

// Source returns the path the configuration was loaded from, if any.
func (c *Config) Source() string {
	return c.sourceFile
}

// Read decodes a configuration from r on top of [Default].
// Unknown keys are rejected. An empty document yields the default configuration.
func Read(r io.Reader) (Config, error) {
	c := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "error parsing YAML configuration")
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = ErrNoConfigFile
		}
		return Config{}, errors.Wrapf(err, "cannot load configuration %s", path)
	}
	defer file.Close()

	c, err := Read(file)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid configuration %s", path)
	}
	c.sourceFile = path

	return c, nil
}

// FindDefaultConfigPath returns the first of [DefaultConfigFiles] present in
// the working directory, or the empty string.
func FindDefaultConfigPath() string {
	for _, name := range DefaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate checks that the configuration describes a runnable setup.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("invalid workers: %d < 1", c.Workers)
	}
	if _, err := c.PipelineParameters(); err != nil {
		return err
	}
	return nil
}

// PipelineParameters returns the checked pipeline parameters.
func (c Config) PipelineParameters() (pipeline.Parameters, error) {
	params, err := pipeline.NewParametersFromLiteral(c.Parameters)
	if err != nil {
		return params, errors.Wrap(err, "invalid parameters")
	}
	return params, nil
}

// Logger returns the logging configuration.
func (c Config) Logger() logger.Config {
	return logger.Config{
		MinLevel: c.LogLevel,
		JSON:     c.JSONLogs,
	}
}

// Write encodes the configuration as YAML into w.
func (c Config) Write(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&c); err != nil {
		return errors.Wrap(err, "cannot encode configuration")
	}
	return encoder.Close()
}
