package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawStatus is the order status as set by the external order system.
// This core never writes it; it only projects it for display.
type RawStatus string

const (
	OrderPlaced               RawStatus = "placed"
	OrderReceived             RawStatus = "received"
	OrderPreparing            RawStatus = "preparing"
	OrderCancelledByCrew      RawStatus = "cancelled_by_crew"
	OrderCancelledByPassenger RawStatus = "cancelled_by_passenger"
	OrderCancelledByTimeout   RawStatus = "cancelled_by_timeout"
	OrderCompleted            RawStatus = "completed"
	OrderRefunded             RawStatus = "refunded"
)

// Order is an immutable order snapshot delivered by the order observer.
type Order struct {
	ID         string
	SeatNumber string
	Items      []OrderItem

	SubtotalPrice Money
	// TotalSavings is nil when no monetary promotion applied.
	TotalSavings *Money
	TotalPrice   Money

	Status    RawStatus
	CreatedAt time.Time
}

// OrderItem is one order line.
type OrderItem struct {
	ID       int
	Name     string
	Quantity int
	// UnitPrice is the price per single item.
	UnitPrice Money
}

// =============================================================================
// ORDER WIRE TYPES
// =============================================================================
// RemoteOrder mirrors the payload exchanged with the order submission
// service, both on create and on observer callbacks. Raw status strings are
// preserved as-is so unrecognized future values survive the round trip.

// RemoteOrder is the wire representation of an order.
type RemoteOrder struct {
	ID                string
	ShiftID           string
	SeatNumber        string
	Status            RawStatus
	Items             []RemoteOrderItem
	AppliedPromotions []AppliedPromotion
	Currency          string
	TotalPrice        decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RemoteOrderItem is one wire order line.
type RemoteOrderItem struct {
	ID       int
	Name     string
	Quantity int
	Price    decimal.Decimal
}
