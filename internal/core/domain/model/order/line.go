package order

import (
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/pkg/errs"
)

// Line is an ordered product. Name and unit of measure are copied from the product
// when the line is created.
type Line struct {
	id       kernel.ID
	product  reference.ProductInfo
	quantity int
}

// NewLine builds an unsaved line for product.
func NewLine(product reference.ProductInfo, quantity int) (Line, error) {
	if err := product.Validate(); err != nil {
		return Line{}, err
	}
	if quantity < 0 {
		return Line{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, "unbounded")
	}

	return Line{product: product, quantity: quantity}, nil
}

// RestoreLine rebuilds a persisted line.
func RestoreLine(id kernel.ID, product reference.ProductInfo, quantity int) (Line, error) {
	line, err := NewLine(product, quantity)
	if err != nil {
		return Line{}, err
	}
	if err = id.Validate(); err != nil {
		return Line{}, fmt.Errorf("order line: %w", err)
	}
	line.id = id
	return line, nil
}

func (l Line) ID() kernel.ID {
	return l.id
}

func (l Line) ProductID() kernel.ID {
	return l.product.ID
}

// Product returns the snapshot taken when the line was created.
func (l Line) Product() reference.ProductInfo {
	return l.product
}

func (l Line) Quantity() int {
	return l.quantity
}
