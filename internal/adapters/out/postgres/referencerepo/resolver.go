package referencerepo

import (
	"context"
	"errors"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormReferenceResolver implements ports.ReferenceResolver using GORM.
type GormReferenceResolver struct {
	db *gorm.DB
}

func NewGormReferenceResolver(db *gorm.DB) *GormReferenceResolver {
	return &GormReferenceResolver{db: db}
}

func modelOf(kind reference.Kind) (any, error) {
	switch kind {
	case reference.Partner:
		return &PartnerDTO{}, nil
	case reference.PriceList:
		return &PriceListDTO{}, nil
	case reference.PaymentTerm:
		return &PaymentTermDTO{}, nil
	case reference.SalesTeam:
		return &SalesTeamDTO{}, nil
	case reference.Company:
		return &CompanyDTO{}, nil
	case reference.Product:
		return &ProductDTO{}, nil
	default:
		return nil, fmt.Errorf("no reference table for kind %d", kind)
	}
}

// Exists reports whether a record of kind with id exists.
func (r *GormReferenceResolver) Exists(ctx context.Context, kind reference.Kind, id kernel.ID) (bool, error) {
	model, err := modelOf(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err = r.db.WithContext(ctx).Model(model).Where("id = ?", id.Int64()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// StatusByCode retrieves a status by its CRM code.
func (r *GormReferenceResolver) StatusByCode(ctx context.Context, code int) (order.Status, error) {
	var dto StatusDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Status{}, errs.NewObjectNotFoundError("status", code)
		}
		return order.Status{}, err
	}

	return StatusToDomain(dto)
}

// Statuses retrieves the whole status catalog ordered by code.
func (r *GormReferenceResolver) Statuses(ctx context.Context) ([]order.Status, error) {
	var dtos []StatusDTO
	if err := r.db.WithContext(ctx).Order("code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	statuses := make([]order.Status, 0, len(dtos))
	for _, dto := range dtos {
		s, err := StatusToDomain(dto)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// UserIDByEmail retrieves the id of the user logging in with email.
func (r *GormReferenceResolver) UserIDByEmail(ctx context.Context, email string) (kernel.ID, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).Select("id").First(&dto, "login = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NewObjectNotFoundError("user", email)
		}
		return 0, err
	}

	return kernel.NewID(dto.ID)
}

// Product retrieves the snapshot of one product.
func (r *GormReferenceResolver) Product(ctx context.Context, id kernel.ID) (reference.ProductInfo, error) {
	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reference.ProductInfo{}, errs.NewObjectNotFoundError("product", id)
		}
		return reference.ProductInfo{}, err
	}

	return ProductToDomain(dto), nil
}

// ProductsByID retrieves the known products among ids in one query.
func (r *GormReferenceResolver) ProductsByID(ctx context.Context, ids []kernel.ID) (map[kernel.ID]reference.ProductInfo, error) {
	products := make(map[kernel.ID]reference.ProductInfo, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Int64())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(raw)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		p := ProductToDomain(dto)
		products[p.ID] = p
	}
	return products, nil
}
