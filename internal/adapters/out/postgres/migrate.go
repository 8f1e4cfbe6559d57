package postgres

import (
	"crmsync/internal/adapters/out/postgres/fulfillment"
	"crmsync/internal/adapters/out/postgres/orderrepo"
	"crmsync/internal/adapters/out/postgres/outboxrepo"
	"crmsync/internal/adapters/out/postgres/referencerepo"

	"gorm.io/gorm"
)

// Models lists every table the service reads or writes, reference data first.
func Models() []any {
	return []any{
		&referencerepo.PartnerDTO{},
		&referencerepo.PriceListDTO{},
		&referencerepo.PaymentTermDTO{},
		&referencerepo.SalesTeamDTO{},
		&referencerepo.CompanyDTO{},
		&referencerepo.ProductDTO{},
		&referencerepo.UserDTO{},
		&referencerepo.StatusDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&orderrepo.HistoryDTO{},
		&fulfillment.ProductionDTO{},
		&fulfillment.RawMoveDTO{},
		&fulfillment.PickingDTO{},
		&fulfillment.PickingMoveDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
