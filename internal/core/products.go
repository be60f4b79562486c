package core

import (
	"context"
	"fmt"
)

type ProductCategory string

const (
	CategoryVie    ProductCategory = "vie"
	CategoryNonVie ProductCategory = "non-vie"
)

type ProductCode string

const (
	ProductAuto         ProductCode = "auto"
	ProductPackObseques ProductCode = "pack_obseques"
)

// Product is a catalog entry for a sellable insurance product.
type Product struct {
	ID          string          `json:"id"`
	Code        ProductCode     `json:"code"`
	Category    ProductCategory `json:"category"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

type ProductRepo interface {
	List(ctx context.Context) ([]Product, error)
	GetByCode(ctx context.Context, code ProductCode) (Product, error)
	UpsertByCode(ctx context.Context, p Product) error
}

func (p Product) Validate() error {
	if p.Code != ProductAuto && p.Code != ProductPackObseques {
		return fmt.Errorf("%w: unknown product code %q", ErrValidation, p.Code)
	}
	if p.Category != CategoryVie && p.Category != CategoryNonVie {
		return fmt.Errorf("%w: unknown product category %q", ErrValidation, p.Category)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrValidation)
	}
	return nil
}

// CategoryOf returns the category a product code belongs to.
func CategoryOf(code ProductCode) ProductCategory {
	if code == ProductPackObseques {
		return CategoryVie
	}
	return CategoryNonVie
}

var (
	ErrProductNotFound = fmt.Errorf("%w: product not found", ErrNotFound)
)
