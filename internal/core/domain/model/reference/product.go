package reference

import (
	"errors"

	"crmsync/internal/core/domain/model/kernel"
)

// ProductInfo is a point-in-time copy of the product attributes an order line or a
// raw-material line keeps: it is not refreshed when the product changes later.
type ProductInfo struct {
	ID           kernel.ID
	Name         string
	UoMID        kernel.ID
	Manufactured bool
}

// Validate checks the snapshot carries an assigned product id. UoMID may be zero
// for products without a unit of measure.
func (p ProductInfo) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return errors.Join(errors.New("product snapshot has no id"), err)
	}
	return nil
}
