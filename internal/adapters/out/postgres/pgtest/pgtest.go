// Package pgtest starts a disposable PostgreSQL container for integration tests and
// seeds the reference data the sync service resolves against.
package pgtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crmsync/internal/adapters/out/postgres/referencerepo"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a running container with an open, migrated connection.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates models into it.
func Start(ctx context.Context, models ...any) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err = db.AutoMigrate(models...); err != nil {
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// Truncate empties tables and restarts their id sequences.
func (d *Database) Truncate(tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	return d.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))).Error
}

// Reference ids created by Seed.
const (
	CustomerID    = 1
	BranchID      = 2
	InvoiceID     = 3
	DeliveryID    = 4
	PriceListID   = 1
	PaymentTermID = 1
	SalesTeamID   = 1
	CompanyID     = 1
	SalespersonID = 5

	StockLocationID      = 8
	ProductionLocationID = 15

	// InsoleID is manufactured, GelPadID is bought.
	InsoleID    = 31
	GelPadID    = 32
	FoamID      = 200
	FabricID    = 201
	SellerEmail = "seller@example.com"

	NewStatusID          = 11
	InProductionStatusID = 14
	ReadyToShipStatusID  = 16
)

// ReferenceTables lists the tables filled by Seed.
var ReferenceTables = []string{
	"partners", "price_lists", "payment_terms", "sales_teams", "companies", "products", "users", "crm_statuses",
}

// Seed inserts a small reference data set. The reference models must be migrated.
func (d *Database) Seed() error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		rows := []any{
			&[]referencerepo.PartnerDTO{
				{ID: CustomerID, Name: "Clínica Norte"},
				{ID: BranchID, Name: "Clínica Norte, Sucursal Centro"},
				{ID: InvoiceID, Name: "Clínica Norte, Facturación"},
				{ID: DeliveryID, Name: "Clínica Norte, Almacén"},
			},
			&referencerepo.PriceListDTO{ID: PriceListID, Name: "Public"},
			&referencerepo.PaymentTermDTO{ID: PaymentTermID, Name: "30 days"},
			&referencerepo.SalesTeamDTO{ID: SalesTeamID, Name: "Direct sales"},
			&referencerepo.CompanyDTO{ID: CompanyID, Name: "Podiatry Lab", StockLocationID: StockLocationID, ProductionLocationID: ProductionLocationID},
			&[]referencerepo.ProductDTO{
				{ID: InsoleID, Name: "Custom insole", UoMID: 1, Manufactured: true},
				{ID: GelPadID, Name: "Gel pad", UoMID: 1},
				{ID: FoamID, Name: "EVA foam sheet", UoMID: 1},
				{ID: FabricID, Name: "Top fabric", UoMID: 1},
			},
			&referencerepo.UserDTO{ID: SalespersonID, Login: SellerEmail, Name: "Seller"},
			&[]referencerepo.StatusDTO{
				{ID: NewStatusID, Code: 1, Name: "New"},
				{ID: InProductionStatusID, Code: 4, Name: "In production"},
				{ID: ReadyToShipStatusID, Code: 6, Name: "Ready to ship"},
			},
		}

		for _, r := range rows {
			if err := tx.Create(r).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
