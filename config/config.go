package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maddmann584/gif-player-v2/gifprotocol"
	"github.com/maddmann584/gif-player-v2/serialport"
	"github.com/rs/zerolog/log"
	"gopkg.in/go-playground/validator.v9"
	"gopkg.in/ini.v1"
)

const (
	DefaultOpenRetries   = 3
	DefaultReadTimeoutMS = 100
)

// Default returns the settings used when no config file exists.
func Default() Config {
	var config Config
	config.Serial.Baud = gifprotocol.BaudRate
	config.Serial.ReadTimeoutMS = DefaultReadTimeoutMS
	config.Serial.OpenRetries = DefaultOpenRetries
	config.Protocol.CommandTimeout = gifprotocol.CommandTimeout
	config.Protocol.UploadTimeout = gifprotocol.UploadTimeout
	config.Protocol.HelloTimeout = gifprotocol.HelloTimeout
	config.Protocol.ChunkSize = gifprotocol.ChunkSize
	config.Protocol.SettleDelay = gifprotocol.SettleDelay
	return config
}

// Load reads the first usable file of configFiles over the defaults. It
// returns the path that was used, or "" when none was found.
func Load(configFiles []string) (Config, string, error) {
	config := Default()

	var validConfigFile string
	for _, configFile := range configFiles {
		fileInfo, statErr := os.Stat(configFile)
		if statErr != nil {
			if !os.IsNotExist(statErr) {
				log.Error().Err(statErr).Msgf("Error accessing config file %s.", configFile)
			}
			continue
		}

		if fileInfo.Size() == 0 {
			log.Debug().Msgf("Config file %s is empty, skipping...", configFile)
			continue
		}

		log.Debug().Msgf("Using config file %s.", configFile)
		validConfigFile = configFile
		break
	}

	if validConfigFile == "" {
		log.Debug().Msg("No config file found, using defaults.")
		return config, "", nil
	}

	iniData, err := ini.Load(validConfigFile)
	if err != nil {
		return config, validConfigFile, fmt.Errorf("failed to load config file %s: %w", validConfigFile, err)
	}

	if err := iniData.StrictMapTo(&config); err != nil {
		return config, validConfigFile, fmt.Errorf("failed to parse config file %s: %w", validConfigFile, err)
	}

	if err := config.Validate(); err != nil {
		return config, validConfigFile, fmt.Errorf("invalid config file %s: %w", validConfigFile, err)
	}

	return config, validConfigFile, nil
}

var validate = validator.New()

// Validate checks every field against its bounds.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		// Report the first offending field by its struct path, e.g.
		// Config.Protocol.ChunkSize.
		fe := verrs[0]
		return fmt.Errorf("%s: value %v fails %q", fe.Namespace(), fe.Value(), fe.ActualTag())
	}
	return err
}

// SerialConfig returns the port settings for device.
func (c Config) SerialConfig() *serialport.Config {
	cfg := serialport.DefaultConfig(c.Serial.Device)
	cfg.Baud = c.Serial.Baud
	cfg.ReadTimeout = time.Duration(c.Serial.ReadTimeoutMS) * time.Millisecond
	return cfg
}

// ClientOptions converts the protocol section into client options.
func (c Config) ClientOptions() []gifprotocol.Option {
	return []gifprotocol.Option{
		gifprotocol.WithCommandTimeout(c.Protocol.CommandTimeout),
		gifprotocol.WithUploadTimeout(c.Protocol.UploadTimeout),
		gifprotocol.WithHelloTimeout(c.Protocol.HelloTimeout),
		gifprotocol.WithChunkSize(c.Protocol.ChunkSize),
		gifprotocol.WithSettleDelay(c.Protocol.SettleDelay),
	}
}

// Files returns the search path for a config file called name.
func Files(name string) []string {
	return []string{
		fmt.Sprintf("/etc/%s/%s.conf", name, name),
		filepath.Join(os.Getenv("HOME"), fmt.Sprintf(".%s.conf", name)),
	}
}
