package jobs

import (
	"context"
	"log/slog"
	"time"

	"compliance/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type reconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePaymentsCommand) (commands.ReconcileResult, error)
}

// ReconcileObserver records the outcome of each run.
type ReconcileObserver interface {
	ObserveReconcile(checked, confirmed, failed int, err error)
}

type ReconciliationConfig struct {
	// Schedule is a cron expression with a seconds field, e.g. "0 */5 * * * *".
	Schedule string
	// Grace is how old a CREATED record must be before the provider is asked about it.
	Grace time.Duration
	// Expiry is the age after which a record without a captured payment is failed.
	Expiry time.Duration
	// BatchSize caps the records examined per run.
	BatchSize int
	// Timeout bounds one run.
	Timeout time.Duration
}

// PaymentReconciliationJob periodically confirms payments whose checkout callback and webhook
// never reached the service, and fails records that were abandoned.
type PaymentReconciliationJob struct {
	handler  reconciler
	observer ReconcileObserver
	cfg      ReconciliationConfig
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewPaymentReconciliationJob creates the job. observer may be nil.
func NewPaymentReconciliationJob(
	handler reconciler,
	observer ReconcileObserver,
	cfg ReconciliationConfig,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	logger = logger.With("component", "payment_reconciliation_job")
	return &PaymentReconciliationJob{
		handler:  handler,
		observer: observer,
		cfg:      cfg,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
		now:    time.Now,
	}
}

// Start schedules the job. It fails on an invalid schedule.
func (j *PaymentReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.cfg.Schedule, func() {
		_, _ = j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job started", "schedule", j.cfg.Schedule)
	return nil
}

// RunOnce performs a single reconciliation pass.
func (j *PaymentReconciliationJob) RunOnce(ctx context.Context) (commands.ReconcileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	cmd, err := commands.NewReconcilePaymentsCommand(j.now(), j.cfg.Grace, j.cfg.Expiry, j.cfg.BatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment reconciliation is misconfigured", "error", err)
		j.observe(commands.ReconcileResult{}, err)
		return commands.ReconcileResult{}, err
	}

	result, err := j.handler.Handle(ctx, cmd)
	j.observe(result, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment reconciliation run failed",
			"checked", result.Checked, "confirmed", result.Confirmed, "failed", result.Failed, "error", err)
		return result, err
	}
	if result.Checked > 0 {
		j.logger.InfoContext(ctx, "Payment reconciliation run finished",
			"checked", result.Checked, "confirmed", result.Confirmed, "failed", result.Failed)
	}
	return result, nil
}

func (j *PaymentReconciliationJob) observe(result commands.ReconcileResult, err error) {
	if j.observer != nil {
		j.observer.ObserveReconcile(result.Checked, result.Confirmed, result.Failed, err)
	}
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *PaymentReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job stopped")
}
