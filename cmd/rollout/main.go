// Command rollout runs a batch of self-play episodes against the catan
// rules engine and prints an aggregate summary. It exists for throughput
// testing and for generating bulk game data.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/rollout"
)

type options struct {
	Workers     int    `yaml:"workers"`
	Episodes    int    `yaml:"episodes"`
	MaxSteps    int    `yaml:"max_steps"`
	BaseSeed    uint64 `yaml:"base_seed"`
	MetricsAddr string `yaml:"metrics_addr"`
	Config      string `yaml:"-"`
}

func main() {
	opts := &options{Workers: 4, Episodes: 100, MaxSteps: 2000, BaseSeed: 1}

	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Run batches of self-play episodes against the catan rules engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "number of concurrent rollout workers")
	cmd.Flags().IntVar(&opts.Episodes, "episodes", opts.Episodes, "total number of episodes to run across all workers")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", opts.MaxSteps, "per-episode step cap before it is counted undecided")
	cmd.Flags().Uint64Var(&opts.BaseSeed, "base-seed", opts.BaseSeed, "first seed handed to worker 0's first episode")
	cmd.Flags().StringVar(&opts.Config, "config", "", "optional YAML file overriding the flags above")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address while the run is in progress (e.g. :9100)")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(opts *options) error {
	if opts.Config != "" {
		if err := loadConfig(opts.Config, opts); err != nil {
			return fmt.Errorf("rollout: loading config: %w", err)
		}
	}
	if opts.Workers <= 0 || opts.Episodes <= 0 {
		return fmt.Errorf("rollout: workers and episodes must both be positive")
	}

	metrics := rollout.NewMetrics("catan2p_rollout_cli")
	registry := prometheus.NewRegistry()
	for _, c := range metrics.Collectors() {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("rollout: registering metrics: %w", err)
		}
	}

	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("rollout: serving metrics on %s/metrics", opts.MetricsAddr)
			if err := http.ListenAndServe(opts.MetricsAddr, mux); err != nil {
				log.Printf("rollout: metrics server stopped: %v", err)
			}
		}()
	}

	cfg := rollout.Config{
		Workers:   opts.Workers,
		Episodes:  opts.Episodes,
		MaxSteps:  opts.MaxSteps,
		BaseSeed:  opts.BaseSeed,
		NewPolicy: rollout.NewRandomPolicyFactory(opts.BaseSeed),
		OnEpisode: func(_ int, e rollout.EpisodeSummary) {
			metrics.Observe(e)
		},
	}

	log.Printf("rollout: starting %d episodes across %d workers (base seed %d)", opts.Episodes, opts.Workers, opts.BaseSeed)
	summary := rollout.Run(cfg, func(seed1, seed2 uint64) *catan.State {
		return catan.NewGame(catan.NewGameOptions{Seed1: seed1, Seed2: seed2})
	})

	log.Printf("rollout: finished %d episodes, %d total steps, in %s", summary.TotalEpisodes, summary.TotalSteps, summary.Duration)
	for _, ws := range summary.Workers {
		log.Printf("  worker %d: %d episodes, %d steps, wins=%v", ws.WorkerID, ws.Episodes, ws.Steps, ws.WinCounts)
	}
	fmt.Printf("wins: %v\n", summary.WinCounts)
	return nil
}

func loadConfig(path string, opts *options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewDecoder(f).Decode(opts)
}
