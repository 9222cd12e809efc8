// Package config loads the demo asyncservice-demo's YAML configuration,
// the same os.ReadFile-plus-yaml.v2-plus-validateSetDefaults pattern the
// teacher uses for its own server config.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Discipline names the queue discipline a Config selects.
type Discipline string

const (
	DisciplineUnbounded Discipline = "unbounded"
	DisciplineBounded   Discipline = "bounded"
	DisciplineTwoLevel  Discipline = "two-level"
	DisciplineSplitting Discipline = "splitting"
)

// Config is the root of the demo's YAML configuration.
type Config struct {
	Queue       *QueueConfig     `yaml:"queue,omitempty" json:"queue,omitempty"`
	Threading   *ThreadingConfig `yaml:"threading,omitempty" json:"threading,omitempty"`
	Termination *Termination     `yaml:"termination,omitempty" json:"termination,omitempty"`
	Prometheus  *PromConfig      `yaml:"prometheus,omitempty" json:"prometheus,omitempty"`
	Logging     *Logging         `yaml:"logging,omitempty" json:"logging,omitempty"`
}

// New reads and validates a Config from file. An empty file path returns
// an all-defaults Config, the same fallback the teacher's own New uses.
func New(file string) (*Config, error) {
	c := new(Config)
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}
	if err := c.validateSetDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validateSetDefaults() error {
	if c.Queue == nil {
		c.Queue = &QueueConfig{}
	}
	if err := c.Queue.validateSetDefaults(); err != nil {
		return err
	}
	if c.Threading == nil {
		c.Threading = &ThreadingConfig{}
	}
	c.Threading.validateSetDefaults()
	if c.Termination == nil {
		c.Termination = &Termination{}
	}
	c.Termination.validateSetDefaults()
	if c.Prometheus == nil {
		c.Prometheus = &PromConfig{}
	}
	c.Prometheus.validateSetDefaults()
	if c.Logging == nil {
		c.Logging = &Logging{}
	}
	return c.Logging.validateSetDefaults()
}

// QueueConfig selects a queue discipline and its parameters.
type QueueConfig struct {
	Discipline           Discipline `yaml:"discipline,omitempty" json:"discipline,omitempty"`
	CapacityLog2         int        `yaml:"capacity-log2,omitempty" json:"capacity-log2,omitempty"`
	ExternalCapacityLog2 int        `yaml:"external-capacity-log2,omitempty" json:"external-capacity-log2,omitempty"`
}

func (q *QueueConfig) validateSetDefaults() error {
	if q.Discipline == "" {
		q.Discipline = defaultDiscipline
	}
	switch q.Discipline {
	case DisciplineUnbounded, DisciplineSplitting:
	case DisciplineBounded:
		if q.CapacityLog2 <= 0 {
			q.CapacityLog2 = defaultCapacityLog2
		}
	case DisciplineTwoLevel:
		if q.ExternalCapacityLog2 <= 0 {
			q.ExternalCapacityLog2 = defaultCapacityLog2
		}
	default:
		return fmt.Errorf("unknown queue discipline %q", q.Discipline)
	}
	return nil
}

// ThreadingConfig controls how many workers a Service runs and how they
// are named for logging.
type ThreadingConfig struct {
	Workers    int    `yaml:"workers,omitempty" json:"workers,omitempty"`
	NameFormat string `yaml:"name-format,omitempty" json:"name-format,omitempty"`
}

func (t *ThreadingConfig) validateSetDefaults() {
	if t.Workers <= 0 {
		t.Workers = 0 // asyncservice.DefaultThreads(0) resolves this to NumCPU()
	}
	if t.NameFormat == "" {
		t.NameFormat = defaultNameFormat
	}
}

// Termination bounds how long a Service waits for in-flight work to
// finish when closing.
type Termination struct {
	TimeoutSeconds int `yaml:"timeout-seconds,omitempty" json:"timeout-seconds,omitempty"`
}

func (t *Termination) validateSetDefaults() {
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTerminationTimeoutSeconds
	}
}

// PromConfig controls the demo's /metrics HTTP listener.
type PromConfig struct {
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
}

func (p *PromConfig) validateSetDefaults() {
	if p.Address == "" {
		p.Address = defaultPrometheusAddress
	}
}

// Logging controls the demo's logrus setup.
type Logging struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
}

func (l *Logging) validateSetDefaults() error {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	return nil
}
