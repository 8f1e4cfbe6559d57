package manufacturing

import (
	"errors"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/pkg/errs"
)

// RawLine is a raw-material move of a manufacturing order: the component consumed,
// how much is required and how much was consumed.
type RawLine struct {
	id                    kernel.ID
	product               reference.ProductInfo
	required              int
	done                  int
	sourceLocationID      kernel.ID
	destinationLocationID kernel.ID
	companyID             kernel.ID
}

// NewConsumedLine builds a raw line where the whole required quantity is already
// consumed. Locations come from the manufacturing order, company from the sales order.
func NewConsumedLine(product reference.ProductInfo, quantity int, from, to, company kernel.ID) (RawLine, error) {
	if err := errors.Join(product.Validate(), from.Validate(), to.Validate(), company.Validate()); err != nil {
		return RawLine{}, err
	}
	if quantity <= 0 {
		return RawLine{}, errs.NewValueIsOutOfRangeError("component quantity", quantity, 1, "unbounded")
	}

	return RawLine{
		product:               product,
		required:              quantity,
		done:                  quantity,
		sourceLocationID:      from,
		destinationLocationID: to,
		companyID:             company,
	}, nil
}

// RestoreRawLine rebuilds a persisted raw line.
func RestoreRawLine(
	id kernel.ID,
	product reference.ProductInfo,
	required, done int,
	from, to, company kernel.ID,
) (RawLine, error) {
	if err := errors.Join(id.Validate(), product.Validate()); err != nil {
		return RawLine{}, err
	}

	return RawLine{
		id:                    id,
		product:               product,
		required:              required,
		done:                  done,
		sourceLocationID:      from,
		destinationLocationID: to,
		companyID:             company,
	}, nil
}

func (l RawLine) ID() kernel.ID                    { return l.id }
func (l RawLine) Product() reference.ProductInfo   { return l.product }
func (l RawLine) Required() int                    { return l.required }
func (l RawLine) Done() int                        { return l.done }
func (l RawLine) SourceLocationID() kernel.ID      { return l.sourceLocationID }
func (l RawLine) DestinationLocationID() kernel.ID { return l.destinationLocationID }
func (l RawLine) CompanyID() kernel.ID             { return l.companyID }
