package harness

import (
	"fmt"
	"runtime"
	"slices"
)

// Implementation names accepted by stress.impl.
const (
	ImplLockFree = "lockfree"
	ImplTwoLock  = "twolock"
	ImplBoth     = "both"
)

// Config represents the configuration of the harness.
type Config struct {
	Core struct {
		// Logging level
		LogLevel string `json:"log_level"`
		// Output log to file
		LogFile string `json:"log_file"`

		// Config file base dir
		BaseDir string `json:"-"`
		// Enable CPU profiling
		CpuProfile string `json:"-"`
		// Enable memory profiling
		MemProfile string `json:"-"`
		// Enable block profiling
		BlockProfile string `json:"-"`
	} `json:"core"`

	Stress struct {
		// Queue implementation to run against
		Impl string `json:"impl"`
		// Number of producer goroutines
		Producers int `json:"producers"`
		// Number of consumer goroutines
		Consumers int `json:"consumers"`
		// Items enqueued by each producer
		ItemsPerProducer int `json:"items_per_producer"`
		// If true, workers are locked to OS threads pinned to cores
		LockThreadsToCores bool `json:"lock_threads_to_cores"`
	} `json:"stress"`

	History struct {
		// Run report store, empty to disable
		Backend string `json:"backend"`
		// Location of the store
		Path string `json:"path"`
	} `json:"history"`
}

// DefaultConfig returns the configuration of the reference scenario:
// four producers, one consumer, ten thousand items each.
func DefaultConfig() *Config {
	c := &Config{}

	c.Core.LogLevel = "INFO"
	c.Core.LogFile = ""

	c.Stress.Impl = ImplLockFree
	c.Stress.Producers = 4
	c.Stress.Consumers = 1
	c.Stress.ItemsPerProducer = 10000
	c.Stress.LockThreadsToCores = false

	c.History.Backend = ""
	c.History.Path = "lfq-history"

	return c
}

// Parse validates the configuration.
func (c *Config) Parse() error {
	if !slices.Contains([]string{ImplLockFree, ImplTwoLock, ImplBoth}, c.Stress.Impl) {
		return fmt.Errorf("invalid stress.impl %q", c.Stress.Impl)
	}
	if c.Stress.Producers < 1 {
		return fmt.Errorf("stress.producers must be positive, got %d", c.Stress.Producers)
	}
	if c.Stress.Consumers < 1 {
		return fmt.Errorf("stress.consumers must be positive, got %d", c.Stress.Consumers)
	}
	if c.Stress.ItemsPerProducer < 0 {
		return fmt.Errorf("stress.items_per_producer must not be negative, got %d", c.Stress.ItemsPerProducer)
	}
	if c.Stress.LockThreadsToCores && c.Stress.Producers+c.Stress.Consumers > runtime.NumCPU() {
		return fmt.Errorf("lock_threads_to_cores needs %d cores, have %d",
			c.Stress.Producers+c.Stress.Consumers, runtime.NumCPU())
	}
	switch c.History.Backend {
	case "", "badger", "sqlite":
	default:
		return fmt.Errorf("invalid history.backend %q", c.History.Backend)
	}
	if c.History.Backend != "" && c.History.Path == "" {
		return fmt.Errorf("history.path is required with backend %q", c.History.Backend)
	}
	return nil
}

// Impls lists the implementations selected by stress.impl.
func (c *Config) Impls() []string {
	if c.Stress.Impl == ImplBoth {
		return []string{ImplLockFree, ImplTwoLock}
	}
	return []string{c.Stress.Impl}
}
