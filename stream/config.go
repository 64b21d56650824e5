package stream

import (
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the YAML configuration of cellfx.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream string `yaml:"stream"`
			Events string `yaml:"events"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Scheduler struct {
		FPS int `yaml:"fps"`
	} `yaml:"scheduler"`
	Api struct {
		Listen string `yaml:"listen"`
		Root   string `yaml:"root"`
	} `yaml:"api"`
	Pixels     int               `yaml:"pixels"`
	Animations []AnimationConfig `yaml:"animations"`
}

// AnimationConfig describes one entry of the playlist.
type AnimationConfig struct {
	Name       string `yaml:"name"`
	DurationMs int    `yaml:"durationMs"`
	Transition string `yaml:"transition"`
	// Gradient selects a rainbow sweep instead of the From/To fade.
	Gradient bool   `yaml:"gradient"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// DefaultConfig returns the configuration used for missing keys.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.URL = "tcp://localhost:1883"
	c.Mqtt.Topics.Stream = "home/cellfx/stream"
	c.Mqtt.Topics.Events = "home/cellfx/events"
	c.Scheduler.FPS = 60
	c.Api.Listen = ":3000"
	c.Api.Root = "client/dist"
	c.Pixels = 500
	return c
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return c, errors.Wrap(err, "open config")
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&c); err != nil {
		return c, errors.Wrapf(err, "decode config %s", path)
	}
	return c, c.Validate()
}

// Validate checks the playlist entries.
func (c *Config) Validate() error {
	if c.Pixels <= 0 {
		return errors.Errorf("pixels must be positive, got %d", c.Pixels)
	}
	for i, a := range c.Animations {
		if a.DurationMs < 0 {
			return errors.Errorf("animation %d (%s): negative duration", i, a.Name)
		}
		if a.Gradient {
			continue
		}
		if _, err := colorful.Hex(a.From); err != nil {
			return errors.Wrapf(err, "animation %d (%s): from", i, a.Name)
		}
		if _, err := colorful.Hex(a.To); err != nil {
			return errors.Wrapf(err, "animation %d (%s): to", i, a.Name)
		}
	}
	return nil
}
