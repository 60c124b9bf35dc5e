package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"PlateIntake/internal/config"
	"PlateIntake/internal/infrastructure/inventory"
	"PlateIntake/internal/infrastructure/ledger"
	"PlateIntake/internal/infrastructure/scheduler"
	"PlateIntake/internal/infrastructure/telegram"
	"PlateIntake/internal/infrastructure/vision"
	"PlateIntake/internal/logging"
	"PlateIntake/internal/ports"
	"PlateIntake/internal/usecase"
)

const connectTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	db     *sql.DB
	intake *usecase.Intake
	logger *slog.Logger
}

// New builds a runnable application instance. Failure here is fatal:
// without a remote client and a ledger connection the batch never
// starts.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	inv, err := inventory.NewAzureClient(cfg.Inventory, baseLogger.With("component", "inventory"))
	if err != nil {
		return nil, fmt.Errorf("init inventory client: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	var notifier ports.Notifier
	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	intake := usecase.NewIntake(usecase.IntakeDeps{
		Inventory:       inv,
		Ledger:          ledger.NewPostgres(db),
		Detector:        vision.NewDetector(cfg.Vision, baseLogger.With("component", "vision")),
		Notifier:        notifier,
		Logger:          baseLogger.With("component", "intake"),
		CacheDir:        cfg.Cache.Dir,
		ViewURLTemplate: cfg.Inventory.ViewURLTemplate,
	})

	return &Application{
		cfg:    cfg,
		db:     db,
		intake: intake,
		logger: baseLogger.With("component", "app"),
	}, nil
}

// Run verifies ledger connectivity, then executes one sweep, or keeps
// sweeping on an interval when the scheduler is enabled.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Error("ledger close failed", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := a.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("connect ledger: %w", err)
	}

	if !a.cfg.Scheduler.Enabled {
		_, err := a.intake.Sweep(ctx)
		return err
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.IntervalDuration())
	runner := usecase.NewScheduler(driver, a.intake)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return runner.Stop(context.Background())
}
