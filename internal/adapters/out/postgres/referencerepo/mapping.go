package referencerepo

import (
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"
)

// ProductToDomain converts a product row to the snapshot kept by order and
// manufacturing lines.
func ProductToDomain(dto ProductDTO) reference.ProductInfo {
	return reference.ProductInfo{
		ID:           kernel.ID(dto.ID),
		Name:         dto.Name,
		UoMID:        kernel.ID(dto.UoMID),
		Manufactured: dto.Manufactured,
	}
}

// StatusToDomain converts a status row.
func StatusToDomain(dto StatusDTO) (order.Status, error) {
	return order.NewStatus(kernel.ID(dto.ID), dto.Code, dto.Name)
}
