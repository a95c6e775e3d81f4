package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultH     = 0.1
	DefaultSteps = 50
	DefaultSpeed = 1.0
)

type Config struct {
	Model      string          `yaml:"model"`
	Integrator string          `yaml:"integrator"`
	H          float64         `yaml:"h"`
	Dh         float64         `yaml:"dh"`
	Steps      int             `yaml:"steps"`
	InitState  InitStateConfig `yaml:"init_state"`
	Control    []float64       `yaml:"control"`
}

type InitStateConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
	Speed   float64 `yaml:"speed"`
	Steer   float64 `yaml:"steer"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "bicycle",
		Integrator: "rk4",
		H:          DefaultH,
		Steps:      DefaultSteps,
		InitState: InitStateConfig{
			Speed: DefaultSpeed,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SubStep returns the maximum sub-step duration: dh when set, else h
// (meaning no sub-stepping).
func (c *Config) SubStep() float64 {
	if c.Dh > 0 {
		return c.Dh
	}
	return c.H
}

func (c *Config) GetInitState() []float64 {
	switch c.Model {
	case "unicycle":
		return []float64{c.InitState.X, c.InitState.Y, c.InitState.Heading, c.InitState.Speed}
	case "double_integrator":
		return []float64{c.InitState.X, c.InitState.Y, c.InitState.VX, c.InitState.VY}
	default:
		return []float64{c.InitState.X, c.InitState.Y, c.InitState.Heading, c.InitState.Speed, c.InitState.Steer}
	}
}
