package app

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/across-protocol/dataworker/clients"
	"github.com/across-protocol/dataworker/clients/fake"
	"github.com/across-protocol/dataworker/config"
	"github.com/across-protocol/dataworker/dataworker"
	"github.com/across-protocol/dataworker/health"
	"github.com/across-protocol/dataworker/metrics"

	evmChain "github.com/across-protocol/dataworker/chains/evm"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var Version string

// resources bundles everything a propose or validate cycle needs,
// assembled once from configuration and shared across cycles.
type resources struct {
	cfg      *config.Config
	logger   zerolog.Logger
	worker   *dataworker.Dataworker
	reporter *health.Reporter
	cycle    *metrics.CycleMetrics
}

func build() (*resources, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	chainIDs := make([]uint64, 0, len(cfg.ChainConfigs))
	providers := make(map[uint64]clients.ChainProvider, len(cfg.ChainConfigs))
	spokePools := make(map[uint64]clients.SpokePoolClient, len(cfg.ChainConfigs))
	endBlockBuffer := make(map[uint64]uint64, len(cfg.ChainConfigs))
	hubPool := fake.NewHubPoolClient()
	rawConfigStore := fake.NewConfigStoreClient()
	if cfg.Overrides.MaxRefundCount != nil {
		rawConfigStore.MaxRefundCount = *cfg.Overrides.MaxRefundCount
	}
	configStore := clients.NewConfigStoreCache(rawConfigStore)

	transferThresholdOverride := make(map[common.Address]*big.Int)
	tokensByChain := make(map[uint64]map[string]config.TokenConfig, len(cfg.ChainConfigs))

	for _, raw := range cfg.ChainConfigs {
		chainType, _ := raw["type"].(string)
		switch chainType {
		case "evm":
			evmCfg, err := evmChain.NewEVMConfig(raw)
			if err != nil {
				return nil, fmt.Errorf("decoding evm chain config: %w", err)
			}
			chainID := *evmCfg.GeneralChainConfig.Id
			chainIDs = append(chainIDs, chainID)
			endBlockBuffer[chainID] = evmCfg.GeneralChainConfig.BlockConfirmations

			ethClient, err := ethclient.Dial(evmCfg.GeneralChainConfig.Endpoint)
			if err != nil {
				return nil, fmt.Errorf("dialing chain %d: %w", chainID, err)
			}
			providers[chainID] = evmChain.NewProvider(ethClient, chainID)
			spokePools[chainID] = fake.NewSpokePoolClient(chainID)
			hubPool.SpokePools[chainID] = evmCfg.SpokePoolAddress
			tokensByChain[chainID] = evmCfg.Tokens

			for addr, threshold := range evmCfg.TransferThresholdOverrides {
				transferThresholdOverride[addr] = threshold
			}
		default:
			return nil, fmt.Errorf("chain type %q not recognized", chainType)
		}
	}

	tokenStore := config.NewTokenStore(tokensByChain)
	for chainID, tokens := range tokenStore.Tokens {
		logger.Debug().Uint64("chainID", chainID).Int("tokens", len(tokens)).Msg("loaded token table")
	}

	meter := otel.Meter("dataworker")
	if _, err := metrics.NewHostMetrics(context.Background(), meter, metric.WithAttributes()); err != nil {
		return nil, fmt.Errorf("initializing host metrics: %w", err)
	}
	cycleMetrics, err := metrics.NewCycleMetrics(context.Background(), meter)
	if err != nil {
		return nil, fmt.Errorf("initializing cycle metrics: %w", err)
	}

	bundle := clients.ClientBundle{
		HubPool:     hubPool,
		ConfigStore: configStore,
		SpokePools:  spokePools,
		Providers:   providers,
		Sink:        metrics.NewInstrumentedSink(clients.NewLogSink(logger), cycleMetrics),
	}

	var maxL1TokenCountOverride *uint32
	if cfg.Overrides.MaxL1TokenCount != nil {
		maxL1TokenCountOverride = cfg.Overrides.MaxL1TokenCount
	}

	worker, err := dataworker.New(dataworker.Config{
		ChainIDs:                  chainIDs,
		EndBlockBuffer:            endBlockBuffer,
		MaxRefundCountOverride:    cfg.Overrides.MaxRefundCount,
		MaxL1TokenCountOverride:   maxL1TokenCountOverride,
		TransferThresholdOverride: transferThresholdOverride,
	}, bundle, logger)
	if err != nil {
		return nil, fmt.Errorf("constructing dataworker: %w", err)
	}

	return &resources{
		cfg:      cfg,
		logger:   logger,
		worker:   worker,
		reporter: health.NewReporter(),
		cycle:    cycleMetrics,
	}, nil
}

// loadConfig reads the file-based configuration and, if an env prefix is
// also configured, layers environment-variable overrides on top of it so
// operators don't have to repeat every field to override one. With no
// config file present, an env prefix alone is sufficient.
func loadConfig() (*config.Config, error) {
	envPrefix := viper.GetString(config.EnvFlagName)

	cfg, fileErr := config.GetConfigFromFile()
	if fileErr != nil {
		if envPrefix == "" {
			return nil, fileErr
		}
		return config.GetConfigFromEnv()
	}

	if envPrefix == "" {
		return cfg, nil
	}

	envCfg, err := config.GetConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.MergeOverride(envCfg); err != nil {
		return nil, fmt.Errorf("merging env overrides onto file config: %w", err)
	}
	return cfg, nil
}

// RunPropose runs one proposal cycle and exits.
func RunPropose() error {
	r, err := build()
	if err != nil {
		return err
	}
	return runCycle(r, "propose", r.worker.Propose)
}

// RunValidate runs one validation cycle and exits.
func RunValidate() error {
	r, err := build()
	if err != nil {
		return err
	}
	return runCycle(r, "validate", r.worker.Validate)
}

// RunLoop alternates propose and validate cycles on the configured
// interval until interrupted, serving /health and /status throughout.
func RunLoop() error {
	r, err := build()
	if err != nil {
		return err
	}

	go health.StartHealthEndpoint(r.cfg.HealthPort, r.reporter)

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP, syscall.SIGQUIT)

	ticker := time.NewTicker(time.Duration(r.cfg.CycleIntervalSeconds) * time.Second)
	defer ticker.Stop()

	r.logger.Info().Msgf("Started dataworker. Version: v%s", Version)

	for {
		select {
		case sig := <-sysErr:
			r.logger.Info().Msgf("terminating on %v signal", sig)
			return nil
		case <-ticker.C:
			_ = runCycle(r, "propose", r.worker.Propose)
			_ = runCycle(r, "validate", r.worker.Validate)
		}
	}
}

func runCycle(r *resources, name string, fn func(ctx context.Context) error) error {
	r.cycle.StartCycle(name)
	err := fn(context.Background())
	r.cycle.EndCycle(name)
	r.reporter.ReportCycle(name, err)
	if err != nil {
		r.cycle.CycleAborted(context.Background())
		r.logger.Error().Err(err).Str("cycle", name).Msg("cycle failed")
		return err
	}
	return nil
}
