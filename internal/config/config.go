package config

import (
	"strings"

	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/task"
	"github.com/MarouaneBouaricha/ehamm/internal/telemetry"
	"github.com/MarouaneBouaricha/ehamm/internal/worker"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// KeyDelimiter separates nested keys, e.g. "simulation..machines".
const KeyDelimiter = ".."

const EnvPrefix = "EHAMM"

type LogConfig struct {
	Level string `mapstructure:"level"`
	Color bool   `mapstructure:"color"`
}

type SimulationConfig struct {
	Tasks     int    `mapstructure:"tasks"`
	SizeCap   int    `mapstructure:"size_cap"`
	Seed      int64  `mapstructure:"seed"`
	Machines  int    `mapstructure:"machines"`
	Scheduler string `mapstructure:"scheduler"`

	// MaxTasks and MaxMachines bound every single run.
	MaxTasks    int `mapstructure:"max_tasks"`
	MaxMachines int `mapstructure:"max_machines"`
}

type StoreConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

type APIConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	// Interval between two drains of the request queue, in seconds.
	Interval int `mapstructure:"interval"`
}

type MetricsConfig struct {
	// Backend is "none" or "prometheus".
	Backend string `mapstructure:"backend"`
}

type Config struct {
	ConfigFile string           `mapstructure:"config_file"`
	Log        LogConfig        `mapstructure:"log"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Store      StoreConfig      `mapstructure:"store"`
	API        APIConfig        `mapstructure:"api"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
		Simulation: SimulationConfig{
			Tasks:       task.DefaultCount,
			SizeCap:     task.DefaultSizeCap,
			Seed:        1234,
			Machines:    6,
			Scheduler:   scheduler.HAMMName,
			MaxTasks:    worker.DefaultMaxTasks,
			MaxMachines: worker.DefaultMaxMachines,
		},
		Store: StoreConfig{
			Type: store.MemoryType,
			Path: "reports.db",
		},
		API: APIConfig{
			Address:  "localhost",
			Port:     5555,
			Interval: 10,
		},
		Metrics: MetricsConfig{
			Backend: telemetry.PrometheusBackend,
		},
	}
}

// Load reads the optional config file named by v and decodes every setting
// into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", file)
		}
	}

	c := DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if _, err := scheduler.New(c.Simulation.Scheduler); err != nil {
		return errors.Wrap(err, "simulation.scheduler")
	}
	if c.Simulation.MaxTasks < 0 || c.Simulation.MaxMachines < 0 {
		return errors.New("simulation limits must not be negative")
	}
	switch c.Metrics.Backend {
	case telemetry.NoneBackend, telemetry.PrometheusBackend:
	default:
		return errors.Errorf("metrics.backend must be %q or %q, got %q",
			telemetry.NoneBackend, telemetry.PrometheusBackend, c.Metrics.Backend)
	}
	switch c.Store.Type {
	case store.MemoryType, store.PersistentType:
	default:
		return errors.Errorf("store.type must be %q or %q, got %q", store.MemoryType, store.PersistentType, c.Store.Type)
	}
	return nil
}

// Key names a nested setting.
type Key []string

func (k Key) EnvName() string {
	return EnvPrefix + "_" + strings.ReplaceAll(strings.ToUpper(k.FlagName()), "-", "_")
}

func (k Key) AccessPath() string {
	return strings.ReplaceAll(strings.Join(k, KeyDelimiter), "-", "_")
}

func (k Key) FlagName() string {
	return strings.Join(k, "-")
}

// Registry binds flags and environment variables to viper keys and sets
// their defaults.
type Registry struct {
	V     *viper.Viper
	Flags *pflag.FlagSet
}

func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
	v.SetTypeByDefaultValue(true)
	return v
}

func (r Registry) bind(name Key) {
	_ = r.V.BindEnv(name.AccessPath(), name.EnvName())
	_ = r.V.BindPFlag(name.AccessPath(), r.Flags.Lookup(name.FlagName()))
}

func (r Registry) String(name Key, value string, usage string) {
	r.Flags.String(name.FlagName(), value, usage)
	r.bind(name)
	r.V.SetDefault(name.AccessPath(), value)
}

func (r Registry) Bool(name Key, value bool, usage string) {
	r.Flags.Bool(name.FlagName(), value, usage)
	r.bind(name)
	r.V.SetDefault(name.AccessPath(), value)
}

func (r Registry) Int(name Key, value int, usage string) {
	r.Flags.Int(name.FlagName(), value, usage)
	r.bind(name)
	r.V.SetDefault(name.AccessPath(), value)
}

func (r Registry) Int64(name Key, value int64, usage string) {
	r.Flags.Int64(name.FlagName(), value, usage)
	r.bind(name)
	r.V.SetDefault(name.AccessPath(), value)
}
