package domain

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	VendorID    string          `json:"vendor_id" gorm:"index"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(14,2)"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Images      pq.StringArray  `json:"images" gorm:"type:text[]"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	SKU         string          `json:"sku"`
	Images      []string        `json:"images"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Order struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	VendorID        string          `json:"vendor_id" gorm:"index"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Status          OrderStatus     `json:"status" gorm:"default:pending"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"default:pending"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(14,2)"`
	Currency        string          `json:"currency"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	OrderID   string          `json:"order_id" gorm:"index"`
	ProductID string          `json:"product_id"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(14,2)"`
}

// StoreConfig is a generated storefront.
type StoreConfig struct {
	StoreName string         `json:"storeName"`
	Hero      StoreHero      `json:"hero"`
	Products  []StoreProduct `json:"products"`
}

type StoreHero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTAText  string `json:"ctaText"`
	CTALink  string `json:"ctaLink,omitempty"`
}

type StoreProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}
