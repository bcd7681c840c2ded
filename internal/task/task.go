package task

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

const (
	DefaultCount   = 1000
	DefaultSizeCap = 1000
)

var ErrInvalidSize = errors.New("task size must be a finite positive number")

// Config describes a randomly generated workload.
type Config struct {
	Count   int   `json:"count"`
	SizeCap int   `json:"sizeCap"`
	Seed    int64 `json:"seed"`
}

func NewConfig() Config {
	return Config{Count: DefaultCount, SizeCap: DefaultSizeCap}
}

// Generate returns cfg.Count integer task sizes drawn uniformly from
// [1, cfg.SizeCap]. The same seed always yields the same workload.
func Generate(cfg Config) ([]float64, error) {
	if cfg.Count <= 0 {
		return nil, errors.Errorf("task count must be positive, got %d", cfg.Count)
	}
	if cfg.SizeCap <= 0 {
		return nil, errors.Errorf("task size cap must be positive, got %d", cfg.SizeCap)
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	sizes := make([]float64, cfg.Count)
	for i := range sizes {
		sizes[i] = float64(r.Intn(cfg.SizeCap) + 1)
	}
	return sizes, nil
}

// Validate reports the first size that is not a finite positive number.
func Validate(sizes []float64) error {
	for i, s := range sizes {
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return errors.Wrapf(ErrInvalidSize, "task %d has size %v", i, s)
		}
	}
	return nil
}
