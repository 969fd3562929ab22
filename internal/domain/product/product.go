package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents listing status.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// Category is the fixed product taxonomy.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryBooks       Category = "Books"
	CategoryClothes     Category = "Clothes"
	CategoryHome        Category = "Home"
	CategoryOther       Category = "Other"
)

// Product is a listing owned by exactly one seller. Price is per unit in the
// smallest currency unit.
type Product struct {
	ID             int64     `json:"id"`
	ProductID      uuid.UUID `json:"productId"`
	SellerID       uuid.UUID `json:"sellerId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       Category  `json:"category"`
	ImageURL       *string   `json:"imageUrl,omitempty"`
	Price          int64     `json:"price"`
	Stock          int       `json:"stock"`
	Status         Status    `json:"status"`
	AutoRejectRule *string   `json:"autoRejectRule,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsAvailable reports whether the product accepts new offers and orders.
func (p *Product) IsAvailable() bool {
	return p.Status == StatusActive
}

func (p *Product) HasRule() bool {
	return p.AutoRejectRule != nil && strings.TrimSpace(*p.AutoRejectRule) != ""
}

func ValidateCategory(c Category) error {
	switch c {
	case CategoryElectronics, CategoryBooks, CategoryClothes, CategoryHome, CategoryOther:
		return nil
	default:
		return errors.New("invalid category")
	}
}

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	return nil
}

func ValidatePrice(price int64) error {
	if price < 0 {
		return errors.New("price must be >= 0")
	}
	return nil
}

func ValidateStock(stock int) error {
	if stock < 0 {
		return errors.New("stock must be >= 0")
	}
	return nil
}
