package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/gigstage/show-booking/internal/model"
)

// ErrSoldOut is returned when an order would push sales past the
// venue capacity.
var ErrSoldOut = errors.New("show is sold out")

// TicketRepo owns the ticket sales ledger. Sales data exists only for
// active shows: a pending show has no price and no orders by
// construction. Order recording is the write path of the external
// payment/ticketing collaborator; it runs after a payment
// confirmation token has been obtained and any token is treated as
// proof of payment. The show-row lock serializes purchase recording
// per show.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// RecordOrder inserts a confirmed purchase for an active show. The
// amount is computed from the stored ticket price, never taken from
// the client, and the order receives a generated reference the buyer
// can quote later. Orders beyond capacity are refused with ErrSoldOut.
func (r *TicketRepo) RecordOrder(ctx context.Context, showID, buyerID uint64, quantity uint32, paymentRef string) (*model.TicketOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT s.status, s.ticket_price_cents, v.capacity,
	                    (SELECT COALESCE(SUM(o.quantity), 0) FROM ticket_orders o WHERE o.show_id = s.id)
	             FROM shows s
	             JOIN venues v ON v.id = s.venue_id
	             WHERE s.id = ? FOR UPDATE`
	var (
		status     string
		priceCents sql.NullInt64
		capacity   uint32
		sold       uint64
	)
	if err := tx.QueryRowContext(ctx, sel, showID).Scan(&status, &priceCents, &capacity, &sold); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if status != model.ShowStatusActive {
		return nil, ErrShowNotActive
	}
	if !priceCents.Valid {
		// An active show always carries a price; a missing one means
		// the aggregate is corrupt and the order must not be guessed.
		return nil, ErrConflict
	}
	if sold+uint64(quantity) > uint64(capacity) {
		return nil, ErrSoldOut
	}

	order := &model.TicketOrder{
		ShowID:      showID,
		BuyerID:     buyerID,
		Quantity:    quantity,
		AmountCents: priceCents.Int64 * int64(quantity),
		PaymentRef:  paymentRef,
		OrderRef:    uuid.NewString(),
	}
	const ins = `INSERT INTO ticket_orders (show_id, buyer_id, quantity, amount_cents, payment_ref, order_ref) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, order.ShowID, order.BuyerID, order.Quantity, order.AmountCents, order.PaymentRef, order.OrderRef)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	order.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// SalesForShow returns the derived sales picture for an active show.
// Pending shows never expose sales data; they return ErrShowNotActive.
func (r *TicketRepo) SalesForShow(ctx context.Context, showID uint64) (model.TicketSalesInfo, error) {
	const q = `SELECT s.status, v.capacity,
	                  (SELECT COALESCE(SUM(o.quantity), 0) FROM ticket_orders o WHERE o.show_id = s.id)
	           FROM shows s
	           JOIN venues v ON v.id = s.venue_id
	           WHERE s.id = ?`
	var (
		status   string
		capacity uint32
		sold     uint32
	)
	err := r.db.QueryRowContext(ctx, q, showID).Scan(&status, &capacity, &sold)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.TicketSalesInfo{}, ErrShowNotFound
		}
		return model.TicketSalesInfo{}, err
	}
	if status != model.ShowStatusActive {
		return model.TicketSalesInfo{}, ErrShowNotActive
	}
	return model.NewTicketSalesInfo(sold, capacity), nil
}
