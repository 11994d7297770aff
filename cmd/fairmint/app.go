// cmd/fairmint/app.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/fairmint/internal/blockchain/solbc"
	"github.com/rovshanmuradov/fairmint/internal/config"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
	"github.com/rovshanmuradov/fairmint/internal/service"
	"github.com/rovshanmuradov/fairmint/internal/storage"
	"github.com/rovshanmuradov/fairmint/internal/storage/sqlstore"
	"github.com/rovshanmuradov/fairmint/internal/utils/logger"
	"github.com/rovshanmuradov/fairmint/internal/utils/metrics"
	"github.com/rovshanmuradov/fairmint/internal/wallet"
)

// signerMode определяет, нужен ли команде приватный ключ.
type signerMode int

const (
	signerRequired signerMode = iota
	// signerOptional - ключ используется, если задан; иначе только адрес или ничего.
	signerOptional
)

// app - собранные зависимости одной команды.
type app struct {
	cfg     *config.Config
	profile config.Profile
	log     *logger.Logger
	metrics *metrics.Collector
	store   storage.Storage
	svc     *service.Service
}

// newFlagSet создаёт набор флагов команды с общим --config.
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", os.Getenv("FAIRMINT_CONFIG"), "Path to config file")
	return fs, configPath
}

func parseFlags(fs *flag.FlagSet, argv []string) error {
	if err := fs.Parse(argv); err != nil {
		return err
	}
	if len(fs.Args()) != 0 {
		return fmt.Errorf("unexpected args: %v", fs.Args())
	}
	return nil
}

func newApp(configPath string, mode signerMode, readOnlyKey string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	profile, err := cfg.ResolveProfile()
	if err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	signer, err := loadSigner(cfg, mode, readOnlyKey)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		profile: profile,
		log:     log,
		metrics: metrics.NewCollector(),
		store:   storage.Noop{},
	}

	if cfg.StorageDSN != "" {
		store, err := sqlstore.Open(cfg.StorageDSN, log.Logger)
		if err != nil {
			_ = log.Sync()
			return nil, err
		}
		if err := store.RunMigrations(); err != nil {
			_ = store.Close()
			_ = log.Sync()
			return nil, err
		}
		a.store = store
	}

	client := solbc.NewClient(cfg.RPCURL, solbc.Options{
		Commitment: cfg.CommitmentType(),
		Retries:    uint(cfg.RPCRetries),
		Metrics:    a.metrics,
	}, log.Logger)

	submitter := submit.New(client, submit.Options{
		Commitment:   cfg.CommitmentType(),
		PollInterval: time.Duration(cfg.ConfirmIntervalMs) * time.Millisecond,
		Recorder:     a.metrics,
	}, log.Logger)

	a.svc = service.New(service.Deps{
		Chain:       client,
		Profile:     profile,
		Signer:      signer,
		Submitter:   submitter,
		Store:       a.store,
		Metrics:     a.metrics,
		Budget:      computebudget.Config{Units: cfg.ComputeUnits, UnitPrice: cfg.ComputeUnitPrice},
		TokenParams: cfg.TokenParams,
		Logger:      log,
	})

	log.Debug("Client configured",
		zap.String("network", string(profile.Network)),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("program_id", profile.ProgramID.String()),
		zap.String("signer", signer.Public().String()))
	return a, nil
}

func loadSigner(cfg *config.Config, mode signerMode, readOnlyKey string) (wallet.Signer, error) {
	if cfg.Keypair != "" || cfg.KeypairFile != "" {
		return wallet.Load(cfg.Keypair, cfg.KeypairFile)
	}
	if mode == signerRequired {
		return wallet.Load("", "")
	}
	ro := wallet.ReadOnly{}
	if readOnlyKey != "" {
		key, err := parseKey("minter", readOnlyKey)
		if err != nil {
			return nil, err
		}
		ro.Key = key
	}
	return ro, nil
}

// close сохраняет метрики и освобождает ресурсы.
func (a *app) close() {
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteToTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Warn("Failed to write metrics", zap.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("Failed to close storage", zap.Error(err))
	}
	_ = a.log.Sync()
}
