package validation

import (
	"context"
	"errors"
	"fmt"

	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/core/ports"
	"crmsync/internal/pkg/errs"
)

// Selections lists the codes allowed for the order type and shipping policy fields.
type Selections interface {
	HasOrderType(code string) bool
	HasShippingPolicy(code string) bool
}

type fieldKind int

const (
	referenceField fieldKind = iota
	statusField
	userField
	orderTypeField
	shippingPolicyField
	textField
	listField
	flagField
)

type field struct {
	name string
	kind fieldKind
	ref  reference.Kind
}

// createFields is the declaration order of the create payload. Missing fields are
// reported in this order.
var createFields = []field{
	{name: "customer", kind: referenceField, ref: reference.Partner},
	{name: "branch", kind: referenceField, ref: reference.Partner},
	{name: "invoice_address", kind: referenceField, ref: reference.Partner},
	{name: "delivery_address", kind: referenceField, ref: reference.Partner},
	{name: "price_list", kind: referenceField, ref: reference.PriceList},
	{name: "payment_terms", kind: referenceField, ref: reference.PaymentTerm},
	{name: "order_type", kind: orderTypeField},
	{name: "status_code", kind: statusField},
	{name: "external_folio", kind: textField},
	{name: "order_lines", kind: listField},
	{name: "salesperson", kind: userField},
	{name: "sales_team", kind: referenceField, ref: reference.SalesTeam},
	{name: "company", kind: referenceField, ref: reference.Company},
	{name: "signature_required", kind: flagField},
	{name: "shipping_policy", kind: shippingPolicyField},
}

// Validator checks CRM payloads against shape rules and reference data.
type Validator struct {
	resolver   ports.ReferenceResolver
	selections Selections
}

func NewValidator(resolver ports.ReferenceResolver, selections Selections) *Validator {
	return &Validator{
		resolver:   resolver,
		selections: selections,
	}
}

// resolved collects the normalized values of the create payload.
type resolved struct {
	ids    map[string]kernel.ID
	texts  map[string]string
	status order.Status
	lines  []any
	flag   bool
}

// ValidateCreate validates an order creation payload.
//
// Missing fields are collected over the whole payload and reported together in
// declaration order (errs.MissingValuesError). The first malformed value
// (errs.ValueIsInvalidError) or unknown reference (errs.ReferenceNotFoundError)
// is returned at once. Order lines are checked only when every top-level field
// passed, and the first invalid line stops the check.
func (v *Validator) ValidateCreate(ctx context.Context, p Payload) (commands.CreateOrderCommand, error) {
	r := resolved{
		ids:   make(map[string]kernel.ID),
		texts: make(map[string]string),
	}
	var missing []string

	for _, f := range createFields {
		raw := p[f.name]
		if f.kind == flagField {
			if raw == nil {
				missing = append(missing, f.name)
				continue
			}
		} else if isBlank(raw) {
			missing = append(missing, f.name)
			continue
		}

		if err := v.resolveField(ctx, f, raw, &r); err != nil {
			return commands.CreateOrderCommand{}, err
		}
	}

	if len(missing) > 0 {
		return commands.CreateOrderCommand{}, errs.NewMissingValuesError(missing...)
	}

	lines, err := v.validateLines(ctx, r.lines)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	header := order.Header{
		CustomerID:        r.ids["customer"],
		BranchID:          r.ids["branch"],
		InvoiceAddressID:  r.ids["invoice_address"],
		DeliveryAddressID: r.ids["delivery_address"],
		PriceListID:       r.ids["price_list"],
		PaymentTermID:     r.ids["payment_terms"],
		OrderType:         r.texts["order_type"],
		SalespersonID:     r.ids["salesperson"],
		SalesTeamID:       r.ids["sales_team"],
		CompanyID:         r.ids["company"],
		SignatureRequired: r.flag,
		ShippingPolicy:    r.texts["shipping_policy"],
		ExternalFolio:     r.texts["external_folio"],
	}

	return commands.NewCreateOrderCommand(header, r.status, lines)
}

func (v *Validator) resolveField(ctx context.Context, f field, raw any, r *resolved) error {
	switch f.kind {
	case referenceField:
		id, err := v.reference(ctx, f.name, f.ref, raw)
		if err != nil {
			return err
		}
		r.ids[f.name] = id

	case statusField:
		status, err := v.status(ctx, f.name, raw)
		if err != nil {
			return err
		}
		r.status = status

	case userField:
		email, ok := raw.(string)
		if !ok {
			return notString(f.name, raw)
		}
		id, err := v.resolver.UserIDByEmail(ctx, email)
		if err != nil {
			return notFound(f.name, email, err)
		}
		r.ids[f.name] = id

	case orderTypeField, shippingPolicyField:
		code, ok := raw.(string)
		if !ok {
			return notString(f.name, raw)
		}
		allowed := v.selections.HasOrderType
		if f.kind == shippingPolicyField {
			allowed = v.selections.HasShippingPolicy
		}
		if !allowed(code) {
			return errs.NewReferenceNotFoundError(f.name, code)
		}
		r.texts[f.name] = code

	case textField:
		text, ok := raw.(string)
		if !ok {
			return notString(f.name, raw)
		}
		r.texts[f.name] = text

	case listField:
		list, ok := raw.([]any)
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause(f.name, fmt.Errorf("must be a list, got %s", describe(raw)))
		}
		r.lines = list

	case flagField:
		flag, ok := raw.(bool)
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause(f.name, fmt.Errorf("must be a boolean, got %s", describe(raw)))
		}
		r.flag = flag
	}

	return nil
}

func (v *Validator) validateLines(ctx context.Context, raw []any) ([]commands.OrderLineRequest, error) {
	if len(raw) == 0 {
		return nil, errs.NewValueIsRequiredError("order_lines")
	}

	lines := make([]commands.OrderLineRequest, 0, len(raw))
	for _, entry := range raw {
		obj, ok := asObject(entry)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("order_lines", fmt.Errorf("entries must be objects, got %s", describe(entry)))
		}

		rawID, ok := asInt(obj["id"])
		if !ok {
			return nil, notInteger("order_lines.id", obj["id"])
		}
		quantity, ok := asInt(obj["quantity"])
		if !ok {
			return nil, notInteger("order_lines.quantity", obj["quantity"])
		}
		if quantity < 0 {
			return nil, errs.NewValueIsOutOfRangeError("order_lines.quantity", quantity, 0, "unbounded")
		}

		id, err := v.exists(ctx, "product", reference.Product, rawID)
		if err != nil {
			return nil, err
		}

		lines = append(lines, commands.OrderLineRequest{ProductID: id, Quantity: int(quantity)})
	}

	return lines, nil
}

// ValidateUpdate validates a status update payload for the order orderID.
//
// When the status is the in production status the products structure is
// required. Its check stops at the first missing value, reported alone by path
// (products.id, products.components, products.components.id,
// products.components.quantity).
func (v *Validator) ValidateUpdate(ctx context.Context, orderID kernel.ID, p Payload) (commands.UpdateOrderStatusCommand, error) {
	raw := p["status_code"]
	if isBlank(raw) {
		return commands.UpdateOrderStatusCommand{}, errs.NewMissingValuesError("status_code")
	}

	status, err := v.status(ctx, "status_code", raw)
	if err != nil {
		return commands.UpdateOrderStatusCommand{}, err
	}

	var requests []manufacturing.ProductionRequest
	if status.IsInProduction() {
		if requests, err = v.validateProducts(ctx, p["products"]); err != nil {
			return commands.UpdateOrderStatusCommand{}, err
		}
	}

	return commands.NewUpdateOrderStatusCommand(orderID, status, requests)
}

func (v *Validator) validateProducts(ctx context.Context, raw any) ([]manufacturing.ProductionRequest, error) {
	if isBlank(raw) {
		return nil, errs.NewMissingValuesError("products")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("products", fmt.Errorf("must be a list, got %s", describe(raw)))
	}

	requests := make([]manufacturing.ProductionRequest, 0, len(list))
	for _, entry := range list {
		obj, ok := asObject(entry)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("products", fmt.Errorf("entries must be objects, got %s", describe(entry)))
		}

		if isBlank(obj["id"]) {
			return nil, errs.NewMissingValuesError("products.id")
		}
		productID, err := v.reference(ctx, "products.id", reference.Product, obj["id"])
		if err != nil {
			return nil, err
		}

		if isBlank(obj["components"]) {
			return nil, errs.NewMissingValuesError("products.components")
		}
		rawComponents, ok := obj["components"].([]any)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("products.components", fmt.Errorf("must be a list, got %s", describe(obj["components"])))
		}

		components, err := v.validateComponents(ctx, rawComponents)
		if err != nil {
			return nil, err
		}

		requests = append(requests, manufacturing.ProductionRequest{ProductID: productID, Components: components})
	}

	return requests, nil
}

func (v *Validator) validateComponents(ctx context.Context, raw []any) ([]manufacturing.ComponentRequest, error) {
	components := make([]manufacturing.ComponentRequest, 0, len(raw))
	for _, entry := range raw {
		obj, ok := asObject(entry)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("products.components", fmt.Errorf("entries must be objects, got %s", describe(entry)))
		}

		if isBlank(obj["id"]) {
			return nil, errs.NewMissingValuesError("products.components.id")
		}
		componentID, err := v.reference(ctx, "products.components.id", reference.Product, obj["id"])
		if err != nil {
			return nil, err
		}

		if isBlank(obj["quantity"]) {
			return nil, errs.NewMissingValuesError("products.components.quantity")
		}
		quantity, ok := asInt(obj["quantity"])
		if !ok {
			return nil, notInteger("products.components.quantity", obj["quantity"])
		}
		if quantity <= 0 {
			return nil, errs.NewValueIsOutOfRangeError("products.components.quantity", quantity, 1, "unbounded")
		}

		components = append(components, manufacturing.ComponentRequest{ProductID: componentID, Quantity: int(quantity)})
	}

	return components, nil
}

// reference checks raw is an integer naming an existing record of kind.
func (v *Validator) reference(ctx context.Context, name string, kind reference.Kind, raw any) (kernel.ID, error) {
	n, ok := asInt(raw)
	if !ok {
		return 0, notInteger(name, raw)
	}
	return v.exists(ctx, name, kind, n)
}

func (v *Validator) exists(ctx context.Context, name string, kind reference.Kind, raw int64) (kernel.ID, error) {
	id, err := kernel.NewID(raw)
	if err != nil {
		return 0, errs.NewReferenceNotFoundError(name, raw)
	}

	found, err := v.resolver.Exists(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errs.NewReferenceNotFoundError(name, id)
	}
	return id, nil
}

func (v *Validator) status(ctx context.Context, name string, raw any) (order.Status, error) {
	code, ok := asInt(raw)
	if !ok {
		return order.Status{}, notInteger(name, raw)
	}

	status, err := v.resolver.StatusByCode(ctx, int(code))
	if err != nil {
		return order.Status{}, notFound(name, code, err)
	}
	return status, nil
}

func notInteger(name string, raw any) error {
	return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("must be an integer, got %s", describe(raw)))
}

func notString(name string, raw any) error {
	return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("must be a string, got %s", describe(raw)))
}

// notFound turns a lookup miss into a reference error and passes other failures through.
func notFound(name string, value any, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewReferenceNotFoundError(name, value)
	}
	return err
}
