package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The retail API speaks plain JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Product struct {
	Id       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// ProductInput is the admin form for a new product. NewCategory, when set,
// is created on the server first and replaces Category.
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required_without=NewCategory"`
	NewCategory string          `json:"newCategory,omitempty"`
}

type ProductPatch struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Price    *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock    *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category *string          `json:"category,omitempty"`
}

type Category struct {
	Name string `json:"name"`
}

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Payment is what the cashier enters at checkout.
type Payment struct {
	CashReceived decimal.Decimal `validate:"gte=0"`
}

type OrderItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type OrderRequest struct {
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	User         string          `json:"user"`
	CashReceived decimal.Decimal `json:"cashReceived"`
}

type Order struct {
	Id           string           `json:"_id,omitempty"`
	User         string           `json:"user"`
	Items        []OrderItem      `json:"items"`
	Total        decimal.Decimal  `json:"total"`
	CashReceived decimal.Decimal  `json:"cashReceived"`
	Change       *decimal.Decimal `json:"change,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}
