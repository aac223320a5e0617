package cmd

import (
	"context"
	"database/sql"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vibast-solutions/ms-go-autoapply/app/preparer"
	"github.com/vibast-solutions/ms-go-autoapply/app/queue"
	"github.com/vibast-solutions/ms-go-autoapply/app/repository"
	"github.com/vibast-solutions/ms-go-autoapply/app/service"
	"github.com/vibast-solutions/ms-go-autoapply/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume queued events",
	Long:  "Consume queued events from Redis streams.",
}

// init registers consume subcommands.
func init() {
	consumeCmd.AddCommand(consumeVacanciesCmd)
	rootCmd.AddCommand(consumeCmd)
}

var consumeVacanciesCmd = &cobra.Command{
	Use:   "vacancies [consumer_name]",
	Short: "Start the vacancy event consumer",
	Long:  "Start a worker that reads vacancy events from the Redis stream and dispatches application emails from eligible sender accounts.",
	Args:  cobra.ExactArgs(1),
	Run:   runConsumeVacancies,
}

// runConsumeVacancies starts the vacancy queue consumer worker.
func runConsumeVacancies(_ *cobra.Command, args []string) {
	consumerName := args[0]

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	log := newLogger(cfg)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQLMaxOpen)
	db.SetMaxIdleConns(cfg.MySQLMaxIdle)
	db.SetConnMaxLifetime(cfg.MySQLMaxLife)

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("Failed to ping database")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	emailProvider, err := buildEmailProvider(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to build email provider")
	}

	locker, err := buildLocker(cfg, rdb, db)
	if err != nil {
		log.WithError(err).Fatal("Failed to build locker")
	}

	templates := preparer.NewTemplateStore(cfg.TemplateDir)
	emailPreparer := preparer.NewChain(
		preparer.NewSubjectStep(),
		preparer.NewBodyStep(templates),
		preparer.NewMIMEStep(cfg.CVDir),
	)

	accounts := service.NewAccountCache(repository.NewAccountRepository(db), cfg.AccountCacheTTL, log)
	ledger := repository.NewSentLogRepository(db)
	stats := service.NewStats()

	dispatcher := service.NewDispatcher(accounts, ledger, emailPreparer, emailProvider, locker, stats, log)
	dispatcher.SendTimeout = cfg.SendTimeout

	consumer := queue.NewVacancyConsumer(rdb, dispatcher, queue.NewDeadLetterSink(rdb), stats, log, consumerName)
	consumer.DispatchTimeout = cfg.DispatchTimeout
	consumer.MaxDeliveries = int64(cfg.MaxDeliveries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Received shutdown signal, stopping consumer...")
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil {
		log.WithError(err).Fatal("Consumer error")
	}

	for counter, value := range stats.Snapshot() {
		log.WithField(counter, value).Info("final counter")
	}
	log.Info("Consumer stopped")
}
