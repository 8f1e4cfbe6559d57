package cmd

import (
	"log/slog"
	"time"

	"crmsync/internal/adapters/out/postgres"
	"crmsync/internal/adapters/out/postgres/referencerepo"
	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/application/usecases/queries"
	"crmsync/internal/core/application/validation"
	"crmsync/internal/core/ports"
	"crmsync/internal/pkg/metrics"
	"crmsync/internal/pkg/selections"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	selections *selections.Catalog
	publisher  ports.EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewCompositionRoot(
	gormDB *gorm.DB,
	catalog *selections.Catalog,
	publisher ports.EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		selections: catalog,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateValidator() *validation.Validator {
	return validation.NewValidator(referencerepo.NewGormReferenceResolver(c.gormDB), c.selections)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	handler := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), time.Now)
	return &handler
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() *commands.UpdateOrderStatusCommandHandler {
	handler := commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), time.Now)
	return &handler
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	handler := commands.NewRelayOutboxCommandHandler(c.outboxUoWFactory(), c.publisher, time.Now)
	return &handler
}

func (c *CompositionRoot) CreatePurgeOutboxCommandHandler() *commands.PurgeOutboxCommandHandler {
	handler := commands.NewPurgeOutboxCommandHandler(c.outboxUoWFactory(), time.Now)
	return &handler
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStatusesQueryHandler() queries.GetStatusesQueryHandler {
	return queries.NewGetStatusesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
