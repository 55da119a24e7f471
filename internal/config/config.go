package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/integrators"
	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/orbit"
	"github.com/san-kum/intercept/internal/search"
	"github.com/san-kum/intercept/internal/study"
)

const (
	DefaultVelocity   = 1196.71
	DefaultIntegrator = "rk4"
	DefaultLogLevel   = "info"
)

type Config struct {
	Physics     PhysicsConfig     `yaml:"physics"`
	Launch      LaunchConfig      `yaml:"launch"`
	Target      TargetConfig      `yaml:"target"`
	Integration IntegrationConfig `yaml:"integration"`
	Impact      ImpactConfig      `yaml:"impact"`
	Search      search.Options    `yaml:"search"`
	Study       StudyConfig       `yaml:"study"`
	LogLevel    string            `yaml:"log_level"`
}

type PhysicsConfig struct {
	G float64 `yaml:"g"`
	M float64 `yaml:"m"`
}

type LaunchConfig struct {
	Radius          float64 `yaml:"r0"`
	Angle           float64 `yaml:"theta0"`
	AngularVelocity float64 `yaml:"vtheta0"`
}

type TargetConfig struct {
	Radius         float64 `yaml:"r"`
	Angle          float64 `yaml:"theta"`
	AngleTolerance float64 `yaml:"angle_tolerance"`
}

type IntegrationConfig struct {
	Integrator string  `yaml:"integrator"`
	Step       float64 `yaml:"step"`
	Steps      int     `yaml:"steps"`
}

type ImpactConfig struct {
	Tolerance float64 `yaml:"tolerance"`
}

type StudyConfig struct {
	Velocity     float64   `yaml:"velocity"`
	StepSizes    []float64 `yaml:"step_sizes"`
	HoldDuration bool      `yaml:"hold_duration"`
	Workers      int       `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{G: orbit.G, M: orbit.EarthMass},
		Launch:  LaunchConfig{Radius: mission.DefaultLaunchRadius},
		Target: TargetConfig{
			Radius:         mission.DefaultTargetRadius,
			Angle:          mission.DefaultTargetAngle,
			AngleTolerance: mission.DefaultAngleTolerance,
		},
		Integration: IntegrationConfig{
			Integrator: DefaultIntegrator,
			Step:       mission.DefaultStep,
			Steps:      mission.DefaultSteps,
		},
		Impact: ImpactConfig{Tolerance: mission.DefaultImpactTolerance},
		Search: search.DefaultOptions(),
		Study: StudyConfig{
			Velocity:  DefaultVelocity,
			StepSizes: study.DefaultStepSizes(),
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, typically a preset. base is
// modified in place and returned.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Physics.G <= 0 || c.Physics.M <= 0:
		return fmt.Errorf("physics constants must be positive (g=%g, m=%g)", c.Physics.G, c.Physics.M)
	case c.Launch.Radius <= 0:
		return fmt.Errorf("launch radius must be positive, got %g", c.Launch.Radius)
	case c.Target.Radius <= 0:
		return fmt.Errorf("target radius must be positive, got %g", c.Target.Radius)
	case c.Target.AngleTolerance <= 0:
		return fmt.Errorf("angle tolerance must be positive, got %g", c.Target.AngleTolerance)
	case c.Integration.Step <= 0:
		return fmt.Errorf("integration step must be positive, got %g", c.Integration.Step)
	case c.Integration.Steps <= 0:
		return fmt.Errorf("integration steps must be positive, got %d", c.Integration.Steps)
	case c.Impact.Tolerance <= 0:
		return fmt.Errorf("impact tolerance must be positive, got %g", c.Impact.Tolerance)
	}
	if _, err := integrators.Get(c.Integration.Integrator); err != nil {
		return err
	}
	return c.Search.Validate()
}

func (c *Config) TwoBody() *orbit.TwoBody {
	return orbit.NewTwoBody(c.Physics.G, c.Physics.M)
}

func (c *Config) MissionLaunch() mission.Launch {
	return mission.Launch{
		Radius:          c.Launch.Radius,
		Angle:           c.Launch.Angle,
		AngularVelocity: c.Launch.AngularVelocity,
	}
}

func (c *Config) MissionTarget() mission.Target {
	return mission.Target{Radius: c.Target.Radius, Angle: c.Target.Angle}
}

// Simulator builds the trajectory simulator described by the config.
func (c *Config) Simulator() (*mission.Simulator, error) {
	name := c.Integration.Integrator
	if _, err := integrators.Get(name); err != nil {
		return nil, err
	}
	newIntegrator := func() dynamo.Integrator {
		integ, _ := integrators.Get(name)
		return integ
	}
	return mission.NewSimulator(c.TwoBody(), newIntegrator, c.MissionLaunch(), c.MissionTarget(), c.Target.AngleTolerance), nil
}

func (c *Config) ImpactEvaluator() mission.ImpactEvaluator {
	return mission.NewImpactEvaluator(c.MissionTarget(), c.Impact.Tolerance)
}
