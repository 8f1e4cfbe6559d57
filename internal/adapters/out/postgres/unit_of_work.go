// Package postgres provides the GORM-based Unit of Work shared by every command
// handler. A unit of work owns one database transaction; the repositories, the
// reference resolver and the fulfillment gateways it hands out all run inside it.
//
// Aggregates added or updated through its repositories are tracked. On Commit their
// pending domain events are written to the outbox in the same transaction, so a
// status change and its notification are stored together or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	// ... change o
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is meant for one goroutine and one business operation.
package postgres

import (
	"context"

	"crmsync/internal/adapters/out/postgres/fulfillment"
	"crmsync/internal/adapters/out/postgres/orderrepo"
	"crmsync/internal/adapters/out/postgres/outboxrepo"
	"crmsync/internal/adapters/out/postgres/pgerr"
	"crmsync/internal/adapters/out/postgres/referencerepo"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/ports"

	"gorm.io/gorm"
)

// eventSource is an aggregate raising domain events.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create returning the concrete type.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:      f.db,
		tracked: make([]any, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the aggregates
// modified within it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []any
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance do not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit writes the pending domain events of tracked aggregates to the outbox, then
// commits. Lock and serialization failures are reported as errs.ErrConcurrentUpdate.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.flushEvents(ctx); err != nil {
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.tracked = uow.tracked[:0]
	return pgerr.Translate(err)
}

func (uow *GormUnitOfWork) flushEvents(ctx context.Context) error {
	events := make([]kernel.DomainEvent, 0)
	sources := make([]eventSource, 0, len(uow.tracked))
	for _, a := range uow.tracked {
		source, ok := a.(eventSource)
		if !ok {
			continue
		}
		events = append(events, source.DomainEvents()...)
		sources = append(sources, source)
	}
	if len(events) == 0 {
		return nil
	}

	if err := outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, events...); err != nil {
		return err
	}
	for _, s := range sources {
		s.ClearDomainEvents()
	}
	return nil
}

// Rollback discards all changes made within the current transaction.
// It is a no-op when no transaction is active, e.g. after Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = uow.tracked[:0]
	return err
}

// conn returns the active transaction, or the main connection outside of one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository provides access to order persistence within the unit of work.
// Orders it adds or updates are tracked.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ReferenceResolver() ports.ReferenceResolver {
	return referencerepo.NewGormReferenceResolver(uow.conn())
}

func (uow *GormUnitOfWork) OrderConfirmer() ports.OrderConfirmer {
	return fulfillment.NewGormOrderConfirmer(uow.conn())
}

func (uow *GormUnitOfWork) ManufacturingGateway() ports.ManufacturingGateway {
	return fulfillment.NewGormManufacturingGateway(uow.conn())
}

func (uow *GormUnitOfWork) DeliveryGateway() ports.DeliveryGateway {
	return fulfillment.NewGormDeliveryGateway(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate as modified within this unit of work.
// Repositories call it after Add and Update. Tracking the same aggregate twice
// has no further effect.
func (uow *GormUnitOfWork) TrackAggregate(aggregate any) {
	for _, a := range uow.tracked {
		if a == aggregate {
			return
		}
	}
	uow.tracked = append(uow.tracked, aggregate)
}
