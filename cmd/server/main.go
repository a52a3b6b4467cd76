package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Martin-Comito/alambrados/internal/config"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/repository"
	"github.com/Martin-Comito/alambrados/internal/router"
	"github.com/Martin-Comito/alambrados/internal/service"
	"github.com/Martin-Comito/alambrados/internal/worker"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	lockTTL  = 30 * time.Second
	lockWait = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Infrastructure ───────────────────────────────────────────────────────
	var locker infra.Locker = infra.NewMemoryLocker()
	if rdb != nil {
		locker = infra.NewRedisLocker(rdb, lockTTL, lockWait)
	}

	var publisher infra.Publisher = infra.LogPublisher{}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		publisher = infra.NewKafkaPublisher(brokers, cfg.KafkaTopic)
	}
	defer publisher.Close()

	var documentos infra.DocumentStore
	if cfg.MinioEndpoint != "" {
		documentos, err = infra.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	} else {
		documentos, err = infra.NewLocalStore(cfg.PDFStoragePath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open document store")
	}

	numeros, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		log.Fatal().Err(err).Int64("node", cfg.SnowflakeNode).Msg("invalid SNOWFLAKE_NODE")
	}

	mailer := infra.NewMailer(cfg, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))
	dispatcher := worker.NewDispatcher(rdb)

	r := router.New(cfg, router.Deps{
		DB:         db,
		Redis:      rdb,
		Locker:     locker,
		Publisher:  publisher,
		Documentos: documentos,
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Numeros:    numeros,
		Stop:       ctx.Done(),
	})

	// Handlers are registered by router.New; start consuming afterwards.
	dispatcher.Start(ctx, cfg.WorkerPoolSize)

	reloj := service.NewReloj(cfg.Location())
	worker.StartCuradoCron(ctx, worker.CuradoCronConfig{
		Lotes:     repository.NewLoteRepository(db),
		Publisher: publisher,
		Interval:  cfg.CuradoCheckInterval,
		Hoy:       reloj.Hoy,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().
			Str("driver", cfg.DBDriver).
			Bool("redis", rdb != nil).
			Msgf("alambrados backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	dispatcher.Wait()
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
