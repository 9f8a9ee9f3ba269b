package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderRefunded  OrderStatus = "refunded"
)

// FeeRate is the share of the subtotal charged as a fee.
var FeeRate = decimal.RequireFromString("0.2")

// Order is a purchase of a product at the price it had when ordered.
type Order struct {
	ID          ID
	ProductID   ID
	Price       decimal.Decimal // unit price
	Fee         decimal.Decimal
	Total       decimal.Decimal
	Quantity    int64
	Status      OrderStatus
	CreatedAt   time.Time
	CompletedAt time.Time
}

// NewOrder prices a pending order for quantity units of p.
func NewOrder(p Product, quantity int64, now time.Time) Order {
	subtotal := p.Price.Mul(decimal.NewFromInt(quantity))
	fee := subtotal.Mul(FeeRate)
	return Order{
		ProductID: p.ID,
		Price:     p.Price,
		Fee:       fee,
		Total:     subtotal.Add(fee),
		Quantity:  quantity,
		Status:    OrderPending,
		CreatedAt: now,
	}
}
