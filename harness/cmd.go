package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/N3ro47/lockfree/harness/history"
	"github.com/N3ro47/lockfree/std/log"
	"github.com/N3ro47/lockfree/std/utils"
	"github.com/N3ro47/lockfree/std/utils/toolutils"
	"github.com/spf13/cobra"
)

// CmdStress is the stress command. Flags override the config file.
func CmdStress() *cobra.Command {
	config := DefaultConfig()
	var impl string
	var producers, consumers, items int

	cmd := &cobra.Command{
		Use:     "stress CONFIG-FILE",
		Short:   "Run producers and consumers against a queue and verify delivery",
		GroupID: "run",
		Version: utils.LfqVersion,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(config, args[0]); err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("impl") {
				config.Stress.Impl = impl
			}
			if flags.Changed("producers") {
				config.Stress.Producers = producers
			}
			if flags.Changed("consumers") {
				config.Stress.Consumers = consumers
			}
			if flags.Changed("items") {
				config.Stress.ItemsPerProducer = items
			}

			if err := config.Parse(); err != nil {
				return err
			}
			return runStress(config)
		},
	}

	cmd.Flags().StringVar(&impl, "impl", "", "Queue implementation (lockfree, twolock, both)")
	cmd.Flags().IntVar(&producers, "producers", 0, "Number of producers")
	cmd.Flags().IntVar(&consumers, "consumers", 0, "Number of consumers")
	cmd.Flags().IntVar(&items, "items", 0, "Items enqueued by each producer")
	cmd.Flags().StringVar(&config.Core.CpuProfile, "cpu-profile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&config.Core.MemProfile, "mem-profile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&config.Core.BlockProfile, "block-profile", "", "Write block profile to file")

	return cmd
}

// CmdHistory lists stored run reports.
func CmdHistory() *cobra.Command {
	config := DefaultConfig()
	var limit int

	cmd := &cobra.Command{
		Use:     "history CONFIG-FILE",
		Short:   "List stored stress run reports",
		GroupID: "run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(config, args[0]); err != nil {
				return err
			}
			if err := config.Parse(); err != nil {
				return err
			}
			if config.History.Backend == "" {
				return fmt.Errorf("history is disabled in %s", args[0])
			}

			store, err := openStore(config)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(limit)
			if err != nil {
				return err
			}
			for _, r := range records {
				printRecord(r)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show, 0 for all")

	return cmd
}

func loadConfig(config *Config, file string) error {
	config.Core.BaseDir = filepath.Dir(file)
	return toolutils.ReadYaml(config, file)
}

func openStore(config *Config) (history.Store, error) {
	path := config.History.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(config.Core.BaseDir, path)
	}
	store, err := history.Open(config.History.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("unable to open history: %w", err)
	}
	return store, nil
}

func runStress(config *Config) error {
	if err := OpenLogger(config); err != nil {
		return err
	}
	defer CloseLogger()

	var store history.Store
	if config.History.Backend != "" {
		var err error
		if store, err = openStore(config); err != nil {
			return err
		}
		defer store.Close()
	}

	profiler := NewProfiler(config)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	var failed error
	for _, impl := range config.Impls() {
		stress := NewStress(config, impl)
		rec, err := stress.Run()
		printRecord(rec)

		if store != nil {
			if err := store.Put(rec); err != nil {
				log.Error(store, "Unable to save run", "err", err)
			}
		}
		if err != nil && failed == nil {
			failed = err
		}
	}
	return failed
}

func printRecord(r history.Record) {
	p := toolutils.StatusPrinter{File: os.Stdout, Padding: 16}
	p.Header(fmt.Sprintf("%s run at %s", r.Impl, r.Time.Format(time.RFC3339)))
	p.Print("producers", r.Producers)
	p.Print("consumers", r.Consumers)
	p.Print("items", r.Items)
	p.Print("elapsed", r.Elapsed)
	p.Print("rate", fmt.Sprintf("%.0f/s", perSecond(r.Items, int64(r.Elapsed))))
	p.Print("fingerprint", fmt.Sprintf("%016x", r.Fingerprint))
	p.Print("consumer-items", fmt.Sprintf("min=%d max=%d mean=%.1f", r.ConsumerMin, r.ConsumerMax, r.ConsumerMean))
	p.Print("nodes-allocated", r.NodesAllocated)
	p.Print("result", utils.If(r.Error == "", "ok", r.Error))
}
