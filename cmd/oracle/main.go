package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"humanwork/internal/chain"
	"humanwork/internal/config"
	"humanwork/internal/contracts"
	"humanwork/internal/dispatch"
	"humanwork/internal/reputation"
	"humanwork/internal/storage/postgres"
	"humanwork/internal/watcher"
)

func main() {
	root := &cobra.Command{
		Use:          "oracle",
		Short:        "Dispute oracle worker",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the event worker",
		RunE:  runWorker,
	}

	runCmd.Flags().String("rpc", "", "chain RPC URL")
	runCmd.Flags().Duration("rpc-timeout", 30*time.Second, "per-call RPC timeout")
	runCmd.Flags().Int("max-retries", 3, "RPC connection attempts before giving up")
	runCmd.Flags().Duration("retry-delay", time.Second, "delay between connection attempts")
	runCmd.Flags().Duration("poll-interval", time.Second, "per-source polling interval")
	runCmd.Flags().Uint64("start-offset", 5, "blocks behind head to start from")
	runCmd.Flags().Int("error-threshold", 10, "consecutive errors before a source stops")
	runCmd.Flags().Int("dedup-cap", 0, "max processed tx hashes kept per source (0 = unbounded)")
	runCmd.Flags().String("escrow-address", config.ZeroAddress, "ProjectEscrow contract address")
	runCmd.Flags().String("oracle-address", config.ZeroAddress, "AIOracle contract address")
	runCmd.Flags().String("jury-address", config.ZeroAddress, "DisputeJury contract address")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	runCmd.Flags().String("metrics-addr", "", "prometheus listen address (empty disables)")
	runCmd.Flags().Duration("stats-interval", 30*time.Second, "source stats log interval")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	logger.Info("database initialized")

	chainClient, err := chain.ConnectWithRetry(ctx, chain.ConnectConfig{
		RPCURL:     cfg.RPCURL,
		Timeout:    cfg.RPCTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	sources, err := buildSources(cfg)
	if err != nil {
		return err
	}

	rep := reputation.New(store, logger)
	dispatcher := dispatch.New(store, rep, logger)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	w := watcher.New(watcher.Config{
		PollInterval:   cfg.PollInterval,
		StartOffset:    cfg.StartOffset,
		ErrorThreshold: cfg.ErrorThreshold,
		StatsInterval:  cfg.StatsInterval,
	}, chainClient, dispatcher, sources, logger)

	logger.Info("worker start",
		zap.String("rpc", cfg.RPCURL),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Uint64("start_offset", cfg.StartOffset),
		zap.Int("error_threshold", cfg.ErrorThreshold),
	)

	err = w.Run(ctx)
	dispatcher.Wait()

	if errors.Is(err, context.Canceled) {
		logger.Info("worker shut down")
		return nil
	}
	return err
}

func buildSources(cfg config.Config) ([]*watcher.Source, error) {
	escrowABI, err := contracts.ProjectEscrowABI()
	if err != nil {
		return nil, err
	}
	oracleABI, err := contracts.AIOracleABI()
	if err != nil {
		return nil, err
	}
	juryABI, err := contracts.DisputeJuryABI()
	if err != nil {
		return nil, err
	}

	defs := []struct {
		name        string
		address     string
		contractABI abi.ABI
	}{
		{"ProjectEscrow", cfg.EscrowAddress, escrowABI},
		{"AIOracle", cfg.OracleAddress, oracleABI},
		{"DisputeJury", cfg.JuryAddress, juryABI},
	}

	sources := make([]*watcher.Source, 0, len(defs))
	for _, def := range defs {
		decoder := contracts.NewEventDecoder(def.contractABI)
		sources = append(sources, watcher.NewSource(def.name, def.address, decoder, cfg.DedupCap))
	}
	return sources, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
