// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/sprintertech/sprinter-bridge/api"
	"github.com/sprintertech/sprinter-bridge/api/handlers"
	"github.com/sprintertech/sprinter-bridge/attestation"
	"github.com/sprintertech/sprinter-bridge/cache"
	"github.com/sprintertech/sprinter-bridge/chains/sim"
	"github.com/sprintertech/sprinter-bridge/config"
	"github.com/sprintertech/sprinter-bridge/coordinator"
	"github.com/sprintertech/sprinter-bridge/events"
	"github.com/sprintertech/sprinter-bridge/health"
	"github.com/sprintertech/sprinter-bridge/ledger"
	"github.com/sprintertech/sprinter-bridge/metrics"
	"github.com/sprintertech/sprinter-bridge/observability"
	"github.com/sprintertech/sprinter-bridge/relay"
	"github.com/sprintertech/sprinter-bridge/store/lvldb"
	"github.com/sprintertech/sprinter-bridge/store/redis"
)

var Version string

func Run() error {
	configuration, err := config.Load(viper.GetString(config.ConfigFlagName), viper.GetString("config-url"))
	panicOnError(err)

	bridgeConfig := configuration.BridgeConfig
	observability.ConfigureLogger(bridgeConfig.LogLevel, os.Stdout)

	log.Info().Msg("Successfully loaded configuration")

	store, closeStore, err := newStore(bridgeConfig.Store)
	panicOnError(err)
	defer closeStore()

	transferLedger, err := ledger.NewLedger(store)
	panicOnError(err)

	mp, err := observability.InitMetricProvider(context.Background(), bridgeConfig.OpenTelemetryCollectorURL)
	panicOnError(err)
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error().Msgf("Error shutting down meter provider: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridgeMetrics, err := metrics.NewBridgeMetrics(ctx, mp.Meter("bridge-metric-provider"), bridgeConfig.Env, bridgeConfig.Id, Version)
	if err != nil {
		panic(err)
	}

	validatorNetwork := sim.NewValidatorNetwork(bridgeConfig.Simulation.ValidatorLatency, bridgeConfig.Simulation.ValidatorDropRate)
	executor := sim.NewRelayExecutor(sim.ExecutorConfig{
		Latency:            bridgeConfig.Simulation.RelayLatency,
		SubmitFailureRate:  bridgeConfig.Simulation.SubmitFailureRate,
		ExecuteFailureRate: bridgeConfig.Simulation.ExecuteFailureRate,
		GasUsed:            bridgeConfig.Simulation.GasUsed,
	})

	var selector relay.Selector
	switch bridgeConfig.RelayerSelection {
	case config.SelectionRandom:
		selector = relay.NewRandomSelector()
	default:
		selector = relay.NewRoundRobinSelector()
	}

	c, err := coordinator.NewCoordinator(
		configuration.CoordinatorConfig(),
		transferLedger,
		validatorNetwork,
		attestation.NewECDSAVerifier(validatorNetwork),
		executor,
		selector,
		events.NewEmitter(),
		bridgeMetrics,
	)
	panicOnError(err)

	sub := c.Subscribe(bridgeConfig.EventBuffer)
	go logEvents(ctx, sub)
	attestationCache := cache.NewAttestationCache(ctx, c)

	c.Start()
	defer c.Stop()

	go health.StartHealthEndpoint(bridgeConfig.HealthPort, c)

	transferHandler := handlers.NewTransferHandler(c)
	signatureHandler := handlers.NewSignatureHandler(c, attestationCache)
	stateHandler := handlers.NewStateHandler(c)
	go api.Serve(ctx, bridgeConfig.ApiAddr, transferHandler, signatureHandler, stateHandler)

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	bridgeName := viper.GetString("name")
	log.Info().Msgf("Started bridge: %s with %d validators and %d relayers. Version: v%s", bridgeName, len(c.Validators()), len(c.Relayers()), Version)

	sig := <-sysErr
	log.Info().Msgf("terminating got ` [%v] signal", sig)
	return nil
}

// newStore opens the configured transfer store. The in-memory setup has no
// store and keeps records only for the lifetime of the process.
func newStore(c config.StoreConfig) (ledger.Store, func(), error) {
	switch c.Type {
	case config.StoreLvlDB:
		{
			s, err := lvldb.NewLvlStore(c.Path)
			if err != nil {
				return nil, nil, err
			}
			log.Info().Msgf("Using LevelDB transfer store at %s", c.Path)
			return s, closer(s.Close), nil
		}
	case config.StoreRedis:
		{
			s := redis.NewRedisStore(c.RedisAddr)
			log.Info().Msgf("Using Redis transfer store at %s", c.RedisAddr)
			return s, closer(s.Close), nil
		}
	case config.StoreMemory:
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("type '%s' not recognized", c.Type)
	}
}

func closer(closeStore func() error) func() {
	return func() {
		if err := closeStore(); err != nil {
			log.Err(err).Msg("Failed closing transfer store")
		}
	}
}

func logEvents(ctx context.Context, sub *events.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C():
			{
				if !ok {
					return
				}

				l := log.With().Str("event", string(event.Type)).Logger()
				switch {
				case event.Transfer != nil:
					l.Info().Str("transferID", event.Transfer.ID).Msgf("Transfer %s", event.Transfer.Status)
				case event.Health != nil:
					l.Debug().Uint64("active", event.Health.ActiveTransfers).Int("queueDepth", event.Health.QueueDepth).Msg("Bridge health")
				case event.Type == events.Warning:
					l.Warn().Msg(event.Message)
				default:
					l.Info().Msg(event.Message)
				}
			}
		}
	}
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
