package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apihttp "compliance/internal/adapters/in/http"
	"compliance/internal/adapters/out/blobstore"
	"compliance/internal/adapters/out/invoice"
	"compliance/internal/adapters/out/kafka"
	"compliance/internal/adapters/out/memory"
	"compliance/internal/adapters/out/metrics"
	"compliance/internal/adapters/out/payments"
	"compliance/internal/adapters/out/postgres"
	"compliance/internal/core/application/usecases/commands"
	"compliance/internal/core/application/usecases/queries"
	"compliance/internal/core/ports"
	"compliance/internal/jobs"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	uowFactory ports.UnitOfWorkFactory
	blobs      ports.BlobStore
	provider   ports.PaymentProvider
	webhooks   payments.WebhookVerifier
	renderer   ports.InvoiceRenderer
	closers    []func() error
}

// NewCompositionRoot connects the adapters selected by cfg. Close releases them.
func NewCompositionRoot(cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.New(),
		webhooks: payments.NewWebhookVerifier(cfg.PaymentWebhookSecret),
		renderer: invoice.NewRenderer(),
	}

	publisher, err := c.newPublisher()
	if err != nil {
		return nil, err
	}
	if c.uowFactory, err = c.newUnitOfWorkFactory(c.metrics.WrapPublisher(publisher)); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if c.blobs, err = blobstore.NewFilesystem(cfg.BlobRoot); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if c.provider, err = c.newPaymentProvider(); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	return c, nil
}

func (c *CompositionRoot) newPublisher() (ports.EventPublisher, error) {
	if c.cfg.KafkaBrokers == "" {
		c.logger.Warn("KAFKA_BROKERS is not set, order events are only logged")
		return kafka.NewLogPublisher(c.logger), nil
	}
	publisher, err := kafka.NewPublisher(c.cfg.KafkaBrokers, c.cfg.KafkaOrderChangedTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	c.closers = append(c.closers, publisher.Close)
	return publisher, nil
}

func (c *CompositionRoot) newUnitOfWorkFactory(publisher ports.EventPublisher) (ports.UnitOfWorkFactory, error) {
	if c.cfg.StorageDriver == StorageDriverMemory {
		c.logger.Warn("using the in-memory store, data is lost on restart")
		return memory.NewStore(publisher), nil
	}

	db, err := gorm.Open(postgresdriver.Open(c.cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)

	if err = postgres.RunMigrations(db); err != nil {
		return nil, err
	}
	return postgres.NewGormUnitOfWorkFactory(db, publisher), nil
}

func (c *CompositionRoot) newPaymentProvider() (ports.PaymentProvider, error) {
	if c.cfg.PaymentProvider == PaymentProviderSandbox {
		c.logger.Warn("using the sandbox payment provider")
		return payments.NewSandbox(c.cfg.PaymentKeyID, c.cfg.PaymentKeySecret)
	}
	return payments.NewClient(payments.ClientConfig{
		BaseURL:   c.cfg.PaymentProviderURL,
		KeyID:     c.cfg.PaymentKeyID,
		KeySecret: c.cfg.PaymentKeySecret,
		Timeout:   c.cfg.PaymentProviderTimeout,
	}, &http.Client{
		Timeout:   c.cfg.PaymentProviderTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// Close releases database connections and the event writer.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uows())
}

func (c *CompositionRoot) CreateUploadDocumentCommandHandler() (commands.UploadDocumentCommandHandler, error) {
	return commands.NewUploadDocumentCommandHandler(c.uows(), c.blobs, c.cfg.DocumentMaxBytes)
}

func (c *CompositionRoot) CreateReplaceDocumentCommandHandler() (commands.ReplaceDocumentCommandHandler, error) {
	return commands.NewReplaceDocumentCommandHandler(c.uows(), c.blobs, c.cfg.DocumentMaxBytes)
}

func (c *CompositionRoot) CreateDeleteDocumentCommandHandler() (commands.DeleteDocumentCommandHandler, error) {
	return commands.NewDeleteDocumentCommandHandler(c.uows(), c.blobs)
}

func (c *CompositionRoot) CreateVerifyDocumentCommandHandler() commands.VerifyDocumentCommandHandler {
	return commands.NewVerifyDocumentCommandHandler(c.uows())
}

func (c *CompositionRoot) CreateCreatePaymentOrderCommandHandler() commands.CreatePaymentOrderCommandHandler {
	return commands.NewCreatePaymentOrderCommandHandler(c.uows(), c.provider)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.uows(), c.provider)
}

func (c *CompositionRoot) CreatePayOrderCommandHandler() commands.PayOrderCommandHandler {
	return commands.NewPayOrderCommandHandler(c.uows(), c.provider)
}

func (c *CompositionRoot) CreateReconcilePaymentsCommandHandler() commands.ReconcilePaymentsCommandHandler {
	return commands.NewReconcilePaymentsCommandHandler(c.uows(), c.provider)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.uows())
}

func (c *CompositionRoot) CreateAdvanceStageCommandHandler() commands.AdvanceStageCommandHandler {
	return commands.NewAdvanceStageCommandHandler(c.uows())
}

func (c *CompositionRoot) CreateCompleteStageCommandHandler() commands.CompleteStageCommandHandler {
	return commands.NewCompleteStageCommandHandler(c.uows())
}

func (c *CompositionRoot) CreateRegisterEmployeeCommandHandler() commands.RegisterEmployeeCommandHandler {
	var f commands.EmployeeUoWFactory = FuncEmployeeUoWFactory(func() commands.EmployeeUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterEmployeeCommandHandler(f)
}

func (c *CompositionRoot) CreateGetInvoiceQueryHandler() queries.GetInvoiceQueryHandler {
	return queries.NewGetInvoiceQueryHandler(c.uowFactory, c.renderer, c.cfg.InvoiceIssuer)
}

// Handlers builds every use case the HTTP server exposes.
func (c *CompositionRoot) Handlers() (apihttp.Handlers, error) {
	h := apihttp.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		CancelOrder:      c.CreateCancelOrderCommandHandler(),
		VerifyDocument:   c.CreateVerifyDocumentCommandHandler(),
		CreatePayment:    c.CreateCreatePaymentOrderCommandHandler(),
		ConfirmPayment:   c.CreateConfirmPaymentCommandHandler(),
		PayOrder:         c.CreatePayOrderCommandHandler(),
		AssignOrder:      c.CreateAssignOrderCommandHandler(),
		AdvanceStage:     c.CreateAdvanceStageCommandHandler(),
		CompleteStage:    c.CreateCompleteStageCommandHandler(),
		RegisterEmployee: c.CreateRegisterEmployeeCommandHandler(),

		GetOrder:         queries.NewGetOrderQueryHandler(c.uowFactory),
		ListOrders:       queries.NewListOrdersQueryHandler(c.uowFactory),
		ListDocuments:    queries.NewListDocumentsQueryHandler(c.uowFactory),
		DownloadDocument: queries.NewDownloadDocumentQueryHandler(c.uowFactory, c.blobs),
		GetProgress:      queries.NewGetProgressQueryHandler(c.uowFactory),
		GetTimeline:      queries.NewGetTimelineQueryHandler(c.uowFactory),
		GetInvoice:       c.CreateGetInvoiceQueryHandler(),
		GetPaymentKey:    queries.NewGetPaymentKeyQueryHandler(c.provider),
		ListEmployees:    queries.NewListEmployeesQueryHandler(c.uowFactory),
	}

	var err error
	if h.UploadDocument, err = c.CreateUploadDocumentCommandHandler(); err != nil {
		return apihttp.Handlers{}, err
	}
	if h.ReplaceDocument, err = c.CreateReplaceDocumentCommandHandler(); err != nil {
		return apihttp.Handlers{}, err
	}
	if h.DeleteDocument, err = c.CreateDeleteDocumentCommandHandler(); err != nil {
		return apihttp.Handlers{}, err
	}
	return h, nil
}

// NewRouter builds the HTTP router with every route, metrics and the swagger UI.
func (c *CompositionRoot) NewRouter() (*echo.Echo, error) {
	handlers, err := c.Handlers()
	if err != nil {
		return nil, err
	}
	server := apihttp.NewServer(handlers, c.webhooks, c.cfg.DefaultCurrency, c.logger)

	// multipart overhead on top of the largest accepted document
	bodyLimit := fmt.Sprintf("%dK", c.cfg.DocumentMaxBytes/1024+64)
	return apihttp.NewRouter(server, apihttp.RouterConfig{
		Logger:    c.logger,
		Metrics:   c.metrics,
		BodyLimit: bodyLimit,
	})
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	reconcile := c.CreateReconcilePaymentsCommandHandler()
	job := jobs.NewPaymentReconciliationJob(&reconcile, c.metrics, jobs.ReconciliationConfig{
		Schedule:  c.cfg.PaymentReconcileCron,
		Grace:     c.cfg.PaymentReconcileGrace,
		Expiry:    c.cfg.PaymentExpiry,
		BatchSize: c.cfg.PaymentReconcileBatch,
	}, c.logger)
	return jobs.NewJobManager(job)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncEmployeeUoWFactory func() commands.EmployeeUoW

func (f FuncEmployeeUoWFactory) Create() commands.EmployeeUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
