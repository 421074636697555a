package cmd

import (
	"fmt"
	"log/slog"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/eventbus"
	"storefront/internal/adapters/out/metrics"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type eventPublisher interface {
	ports.OrderEventPublisher
	Close() error
}

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	registry  *prometheus.Registry
	metrics   *metrics.OrderMetrics
	sink      eventPublisher
	publisher ports.OrderEventPublisher
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)

	var sink eventPublisher
	if brokers := configs.KafkaBrokers(); len(brokers) > 0 {
		sink = eventbus.NewKafkaOrderEventPublisher(eventbus.NewKafkaWriter(brokers, configs.KafkaOrderChangedTopic))
	} else {
		sink = eventbus.NewLogOrderEventPublisher(logger)
	}

	return &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		registry:   registry,
		metrics:    orderMetrics,
		sink:       sink,
		publisher:  metrics.NewInstrumentedPublisher(sink, orderMetrics),
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelStalePendingOrdersCommandHandler() commands.CancelStalePendingOrdersCommandHandler {
	return commands.NewCancelStalePendingOrdersCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrderStatusesQueryHandler() queries.ListOrderStatusesQueryHandler {
	return queries.NewListOrderStatusesQueryHandler()
}

// CreateHTTPRouter wires the use cases into the echo router.
func (c *CompositionRoot) CreateHTTPRouter() (*echo.Echo, error) {
	server := httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateListOrderStatusesQueryHandler(),
		c.metrics,
		c.logger,
	)

	return httpin.NewRouter(server, c.registry, c.logger)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	staleJob, err := jobs.NewStalePendingOrdersJob(
		c.CreateCancelStalePendingOrdersCommandHandler(),
		c.metrics,
		c.configs.StaleOrderSchedule,
		c.configs.PendingOrderTTL,
		c.configs.StaleOrderBatchSize,
		c.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("stale pending orders job: %w", err)
	}

	return jobs.NewJobManager(staleJob), nil
}

// Close flushes the event sink.
func (c *CompositionRoot) Close() error {
	return c.sink.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
