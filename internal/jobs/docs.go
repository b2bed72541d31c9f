// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron based (github.com/robfig/cron/v3, six-field expressions with seconds).
//
// # Available Jobs
//
// 1. PaymentReconciliationJob - asks the payment provider about CREATED payment records older
// than the grace period, confirms the captured ones through the regular confirmation routine
// as the system actor, and fails records past their expiry
//
// # Usage
//
//	job := jobs.NewPaymentReconciliationJob(&reconcileHandler, metrics, jobs.ReconciliationConfig{
//		Schedule:  "0 */5 * * * *",
//		Grace:     15 * time.Minute,
//		Expiry:    24 * time.Hour,
//		BatchSize: 100,
//	}, logger)
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A run keeps going past per-record failures and reports them joined. Runs never overlap:
// a tick that fires while the previous pass is still running is skipped.
package jobs
