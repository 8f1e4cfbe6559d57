// Package referencerepo reads the master data the sync service resolves CRM
// identifiers against. The service never writes these tables.
package referencerepo

// PartnerDTO is a customer, branch or address record.
type PartnerDTO struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (PartnerDTO) TableName() string {
	return "partners"
}

type PriceListDTO struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (PriceListDTO) TableName() string {
	return "price_lists"
}

type PaymentTermDTO struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (PaymentTermDTO) TableName() string {
	return "payment_terms"
}

type SalesTeamDTO struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (SalesTeamDTO) TableName() string {
	return "sales_teams"
}

// CompanyDTO carries the stock locations manufacturing orders of the company use.
type CompanyDTO struct {
	ID                   int64 `gorm:"primaryKey"`
	Name                 string
	StockLocationID      int64
	ProductionLocationID int64
}

func (CompanyDTO) TableName() string {
	return "companies"
}

type ProductDTO struct {
	ID           int64 `gorm:"primaryKey"`
	Name         string
	UoMID        int64 `gorm:"column:uom_id"`
	Manufactured bool
}

func (ProductDTO) TableName() string {
	return "products"
}

// UserDTO is a backend user. Login holds the e-mail the CRM sends as salesperson.
type UserDTO struct {
	ID    int64  `gorm:"primaryKey"`
	Login string `gorm:"uniqueIndex"`
	Name  string
}

func (UserDTO) TableName() string {
	return "users"
}

// StatusDTO is an entry of the CRM status catalog.
type StatusDTO struct {
	ID   int64 `gorm:"primaryKey"`
	Code int   `gorm:"uniqueIndex;not null"`
	Name string
}

func (StatusDTO) TableName() string {
	return "crm_statuses"
}
