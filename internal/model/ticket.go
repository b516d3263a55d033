package model

import "time"

// TicketOrder records a confirmed ticket purchase for an active show.
// Orders are written by the ticketing path only after an external
// payment confirmation token has been obtained; this core treats any
// token as proof of payment.
//
// Fields:
//  ID          – primary key identifier.
//  ShowID      – show the tickets belong to.
//  BuyerID     – user who bought the tickets.
//  Quantity    – number of tickets in the order.
//  AmountCents – total charged, quantity * ticket price.
//  PaymentRef  – confirmation token returned by the payment provider.
//  OrderRef    – stable reference handed back to the buyer.
//  CreatedAt   – creation timestamp.
type TicketOrder struct {
	ID          uint64    // ticket_orders.id
	ShowID      uint64    // ticket_orders.show_id
	BuyerID     uint64    // ticket_orders.buyer_id
	Quantity    uint32    // ticket_orders.quantity
	AmountCents int64     // ticket_orders.amount_cents
	PaymentRef  string    // ticket_orders.payment_ref
	OrderRef    string    // ticket_orders.order_ref
	CreatedAt   time.Time // ticket_orders.created_at
}

// TicketSalesInfo is the derived sales picture for an active show.
// It is never stored; it is computed from the order sum and the venue
// capacity at read time.
//
// Fields:
//  TicketsSold – total quantity across confirmed orders.
//  Capacity    – venue capacity at read time.
//  IsSoldOut   – true once TicketsSold >= Capacity.
type TicketSalesInfo struct {
	TicketsSold uint32 `json:"tickets_sold"`
	Capacity    uint32 `json:"capacity"`
	IsSoldOut   bool   `json:"is_sold_out"`
}

// NewTicketSalesInfo derives the sold-out flag from a raw count and
// capacity.
func NewTicketSalesInfo(sold, capacity uint32) TicketSalesInfo {
	return TicketSalesInfo{
		TicketsSold: sold,
		Capacity:    capacity,
		IsSoldOut:   capacity > 0 && sold >= capacity,
	}
}

// SalesPercentage returns the rounded percentage of capacity sold,
// clamped to [0,100].  A zero capacity reports 0 rather than dividing.
func (t TicketSalesInfo) SalesPercentage() int {
	if t.Capacity == 0 {
		return 0
	}
	pct := int((uint64(t.TicketsSold)*100 + uint64(t.Capacity)/2) / uint64(t.Capacity))
	if pct > 100 {
		pct = 100
	}
	return pct
}
