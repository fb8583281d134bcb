package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"regtest-transfer/internal/bitcoin"
	"regtest-transfer/internal/config"
	"regtest-transfer/internal/database"
	"regtest-transfer/internal/emitters"
	"regtest-transfer/internal/events"
	"regtest-transfer/internal/health"
	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/regtest"
	"regtest-transfer/internal/rpc"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().Error().Interface("panic", r).Msg("Application panicked")
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		logger.GetLogger().Error().Err(err).Msg("Transfer failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := rpc.NewClient(cfg.RPC.Endpoint, cfg.RPC.User, cfg.RPC.Password, rpc.Options{
		RateLimit: cfg.RPC.RateLimit,
		Timeout:   cfg.RPC.Timeout,
	}, log)
	defer client.Close()

	var sinks events.MultiEmitter

	if cfg.Kafka.Enabled() {
		kafkaEmitter := emitters.NewKafkaEmitter(cfg.Kafka)
		defer func() {
			if err := kafkaEmitter.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Kafka writer")
			}
		}()
		sinks = append(sinks, kafkaEmitter)
		log.Info().Str("broker", cfg.Kafka.BrokerAddress).Str("topic", cfg.Kafka.Topic).Msg("Kafka sink enabled")
	}

	if cfg.Database.Enabled() {
		if err := database.InitDB(ctx, cfg.Database); err != nil {
			return err
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.Database); err != nil {
			return err
		}
		sinks = append(sinks, database.ReportEmitter{})
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Database sink enabled")
	}

	var history *emitters.HistoryEmitter
	if cfg.History.Enabled() {
		history, err = emitters.NewHistoryEmitter(cfg.History)
		if err != nil {
			return err
		}
		defer history.Close()
		sinks = append(sinks, history)
	}

	var sink interfaces.EventEmitter = &events.LogEmitter{WrappedEmitter: sinks}

	node := bitcoin.NewNode(client)
	if cfg.RPC.WaitTimeout > 0 {
		if _, err := health.WaitForNode(ctx, node, cfg.RPC.WaitTimeout); err != nil {
			return err
		}
	}

	r, err := regtest.Run(ctx, node, regtest.OptionsFromConfig(cfg), sink)
	if err != nil {
		return err
	}

	log.Info().Str("txid", r.TxID).Str("path", cfg.OutputPath).Msg("Transfer complete")

	if history != nil {
		if n, err := history.Len(); err == nil {
			log.Info().Int("reports", n).Str("path", cfg.History.Path).Msg("Report history")
		}
	}
	return nil
}
