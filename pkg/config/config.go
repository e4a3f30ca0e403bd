package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/dwest77a/stac-harvester/pkg/errors"
)

const (
	// ConfigPathKey is the environment variable used to override the path to
	// the harvester configuration file.
	ConfigPathKey = "STAC_HARVESTER_CONFIGURATION_FILE"

	// DefaultConfigPath is the default path to the harvester configuration
	// file, relative to the working directory.
	DefaultConfigPath = ".stac_harvester.yaml"
)

// Kind identifies which backend a catalog descriptor points at.
type Kind string

const (
	// KindStatic is a catalog stored as a tree of linked metadata files on
	// durable storage, addressed by file path.
	KindStatic Kind = "STATIC"

	// KindAPI is a catalog exposed through a STAC API service.
	KindAPI Kind = "API"
)

// Endpoint describes one side of the harvest: the kind of backend and the
// location of its catalog root.
type Endpoint struct {
	Type Kind   `json:"TYPE"`
	Root string `json:"ROOT"`
}

// Logging configures the verbosity of the harvester's log output.
type Logging struct {
	Level string `json:"LEVEL,omitempty"`
}

// Harvester is the top-level harvester configuration.
type Harvester struct {
	Input   Endpoint `json:"INPUT"`
	Output  Endpoint `json:"OUTPUT"`
	Logging Logging  `json:"LOGGING,omitempty"`
}

// parseConfigErrTemplate is a template for when the CLI fails to parse the
// yaml configuration file. This can happen for a multitude of reasons,
// including extraneous fields and incorrect field types. However, the yaml
// library constructs errors in a way that loses context, and so we can only
// pass the error message on.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// Parse reads the harvester configuration from the default path, or from the
// path in the STAC_HARVESTER_CONFIGURATION_FILE environment variable if it's
// set.
func Parse() (Harvester, error) {
	path := os.Getenv(ConfigPathKey)
	if path == "" {
		path = DefaultConfigPath
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return Harvester{}, errors.WithContext(err, "expand config path")
	}

	config, err := parse(path)
	if err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return Harvester{}, errors.NewFriendlyError("The harvester config "+
				"file doesn't exist at %q. Either create it, or point %s at "+
				"an existing config file.", path, ConfigPathKey)
		}
		return Harvester{}, errors.WithContext(err, "parse")
	}
	return config, nil
}

func parse(path string) (Harvester, error) {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Harvester{}, errors.FileNotFound{Path: path}
		}
		return Harvester{}, errors.WithContext(err, "read file")
	}

	var config Harvester
	if err := yaml.UnmarshalStrict(configBytes, &config, yaml.DisallowUnknownFields); err != nil {
		return Harvester{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	for _, endpoint := range []struct {
		name string
		ep   Endpoint
	}{
		{"INPUT", config.Input},
		{"OUTPUT", config.Output},
	} {
		if endpoint.ep.Type != KindStatic && endpoint.ep.Type != KindAPI {
			return Harvester{}, errors.NewFriendlyError(
				"%s.TYPE in %q must be either %q or %q, but got %q.",
				endpoint.name, path, KindStatic, KindAPI, endpoint.ep.Type)
		}
		if endpoint.ep.Root == "" {
			return Harvester{}, errors.MissingFieldError{
				Field: fmt.Sprintf("%s.ROOT", endpoint.name)}
		}
	}
	return config, nil
}

// SetupLogging applies the configured log level to the global logger. An
// unknown level is not fatal since it doesn't affect the harvest itself.
func SetupLogging(conf Logging) {
	if conf.Level == "" {
		return
	}

	level, err := log.ParseLevel(conf.Level)
	if err != nil {
		log.WithError(err).Warnf("Unknown log level %q. Using the default level instead.", conf.Level)
		return
	}
	log.SetLevel(level)
}
