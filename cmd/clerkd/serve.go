package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azrael-sim/clerk/pkg/cache"
	"github.com/azrael-sim/clerk/pkg/clerk"
	"github.com/azrael-sim/clerk/pkg/config"
	"github.com/azrael-sim/clerk/pkg/dibbler"
	"github.com/azrael-sim/clerk/pkg/ha"
	"github.com/azrael-sim/clerk/pkg/idalloc"
	"github.com/azrael-sim/clerk/pkg/igor"
	"github.com/azrael-sim/clerk/pkg/log"
	"github.com/azrael-sim/clerk/pkg/metrics"
	"github.com/azrael-sim/clerk/pkg/queue"
	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/azrael-sim/clerk/pkg/wire"
	"github.com/spf13/cobra"
)

var (
	metricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a Clerk node",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9090", "Metrics/health HTTP listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.WithNodeID(cfg.NodeID).Info().Str("bindAddr", cfg.BindAddr).Msg("clerkd: starting")

	s, err := store.NewBoltStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	metrics.RegisterComponent("store", true, "opened")

	assets, err := dibbler.NewLocalStore(cfg.DataDir + "/assets")
	if err != nil {
		return fmt.Errorf("open asset store: %w", err)
	}

	q, err := queue.NewBoltQueue(cfg.DataDir + "/queue")
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}

	ix := igor.New()
	ids := idalloc.New(s)
	c := clerk.New(s, assets, ix, ids, q)
	metrics.RegisterComponent("clerk", true, "ready")
	metrics.SetCountsSource(c)

	var dispatcher wire.Dispatcher = c
	cachedClerk, err := cache.New(c, cache.Config{
		NumCounters: cfg.Cache.NumCounters,
		MaxCost:     cfg.Cache.MaxCost,
	})
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer cachedClerk.Close()
	dispatcher = cachedClerk

	var node *ha.Node
	if cfg.HA.Bootstrap || len(cfg.HA.Peers) > 0 {
		fsm := ha.NewClerkFSM(s)
		node, err = ha.NewNode(ha.Config{
			NodeID:   cfg.NodeID,
			BindAddr: cfg.BindAddr,
			DataDir:  cfg.DataDir + "/raft",
		}, fsm)
		if err != nil {
			return fmt.Errorf("init ha node: %w", err)
		}
		if cfg.HA.Bootstrap {
			if err := node.Bootstrap(); err != nil {
				return fmt.Errorf("bootstrap ha: %w", err)
			}
		} else {
			if err := node.JoinExisting(); err != nil {
				return fmt.Errorf("join ha cluster: %w", err)
			}
		}
		metrics.RegisterComponent("ha", true, "bootstrapped")
	}

	collector := metrics.NewCollector(c)
	collector.Start()
	defer collector.Stop()

	if node != nil {
		go haGaugeLoop(node, collector)
	}

	metrics.SetVersion(Version)
	go func() {
		http.Handle("/metrics", metrics.Handler())
		http.Handle("/health", metrics.HealthHandler())
		http.Handle("/ready", metrics.ReadyHandler())
		http.Handle("/live", metrics.LivenessHandler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("clerkd: metrics server error")
		}
	}()
	log.Logger.Info().Str("addr", metricsAddr).Msg("clerkd: metrics/health endpoints up")

	srv := wire.NewServer(dispatcher)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.BindAddr); err != nil {
			errCh <- err
		}
	}()
	metrics.RegisterComponent("wire", true, "listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Logger.Info().Msg("clerkd: shutting down")
	case err := <-errCh:
		log.Logger.Error().Err(err).Msg("clerkd: wire server error")
		return err
	}

	srv.Stop()
	if node != nil {
		if err := node.Shutdown(); err != nil {
			log.Logger.Error().Err(err).Msg("clerkd: ha shutdown error")
		}
	}
	if err := q.Close(); err != nil {
		log.Logger.Error().Err(err).Msg("clerkd: queue close error")
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	log.Logger.Info().Msg("clerkd: shutdown complete")
	return nil
}

func haGaugeLoop(node *ha.Node, _ *metrics.Collector) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if node.IsLeader() {
			metrics.HAIsLeader.Set(1)
		} else {
			metrics.HAIsLeader.Set(0)
		}
		metrics.HAPeersTotal.Set(float64(node.PeerCount()))
	}
}
