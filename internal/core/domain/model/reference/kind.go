package reference

// Kind names a family of reference records that can be checked for existence by id.
type Kind int

const (
	UnknownKind Kind = iota
	Partner
	PriceList
	PaymentTerm
	SalesTeam
	Company
	Product
)

func (k Kind) String() string {
	switch k {
	case Partner:
		return "partner"
	case PriceList:
		return "price list"
	case PaymentTerm:
		return "payment term"
	case SalesTeam:
		return "sales team"
	case Company:
		return "company"
	case Product:
		return "product"
	default:
		return "unknown"
	}
}
