package evo

import "fmt"

const (
	DefaultMutationChance      = 0.25
	DefaultMutationRate        = 0.1
	DefaultSignificantProgress = 5.0
)

// Config is fixed for the lifetime of a controller.
type Config struct {
	// MutationChance is the probability that an optional mutation step runs.
	MutationChance float64
	// MutationRate is the fraction a response field moves per alteration.
	MutationRate float64
	// SignificantProgressScore is the score a generation must strictly exceed
	// to be picked as the recent breeding partner.
	SignificantProgressScore float64
}

func DefaultConfig() Config {
	return Config{
		MutationChance:           DefaultMutationChance,
		MutationRate:             DefaultMutationRate,
		SignificantProgressScore: DefaultSignificantProgress,
	}
}

func (c Config) Validate() error {
	if c.MutationChance < 0 || c.MutationChance > 1 {
		return fmt.Errorf("mutation chance must be in [0,1], got %f", c.MutationChance)
	}
	if c.MutationRate < 0 {
		return fmt.Errorf("mutation rate must be >= 0, got %f", c.MutationRate)
	}
	return nil
}
