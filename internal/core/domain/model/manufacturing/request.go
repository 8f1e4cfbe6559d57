package manufacturing

import "crmsync/internal/core/domain/model/kernel"

// ComponentRequest is a component the CRM reports as consumed, with its quantity.
type ComponentRequest struct {
	ProductID kernel.ID
	Quantity  int
}

// ProductionRequest lists the components consumed to produce one finished product.
type ProductionRequest struct {
	ProductID  kernel.ID
	Components []ComponentRequest
}

// ProductIDs returns the finished product ids of requests, in order.
func ProductIDs(requests []ProductionRequest) []kernel.ID {
	ids := make([]kernel.ID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ProductID)
	}
	return ids
}
