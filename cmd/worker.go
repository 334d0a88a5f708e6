package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/albaledger/portal/internal/notification"
	notificationPostgres "github.com/albaledger/portal/internal/notification/postgres"
	userPostgres "github.com/albaledger/portal/internal/user/postgres"
	"github.com/albaledger/portal/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers such as the deadline reminder scheduler.`,
}

var deadlineWorkerCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "Start the deadline reminder scheduler",
	Long:  `Run the filing calendar evaluator on its daily schedule without the HTTP server.`,
	Run: func(cmd *cobra.Command, args []string) {
		startDeadlineWorker()
	},
}

func startDeadlineWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	gormDB, err := initGorm(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	notifier := notification.NewLogNotifier(lg)
	service := notification.NewService(notificationRepo, userRepo, notifier, lg)

	scheduler := notification.NewScheduler(
		service,
		config.Deadlines.CheckHour,
		config.Deadlines.CheckInterval,
		lg,
	)

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	lg.Info("deadline worker is running",
		"check_hour", config.Deadlines.CheckHour,
		"check_interval", config.Deadlines.CheckInterval.String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down deadline worker", "signal", sig)

	cancel()
	scheduler.Stop()
	lg.Info("deadline worker shutdown complete")
}

func init() {
	workerCmd.AddCommand(deadlineWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
