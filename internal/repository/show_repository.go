// Package repository contains data access logic for the show booking
// aggregate. This file defines the ShowRepo with creation, aggregate
// loading, the venue terms commit and the activation trigger. All
// invariant-sensitive writes run inside a single transaction so that
// concurrent sessions never race a stale client view.
package repository

import (
	"context"
	"database/sql"

	"github.com/gigstage/show-booking/internal/guarantee"
	"github.com/gigstage/show-booking/internal/model"
)

// querier is the subset of *sql.DB and *sql.Tx used by the shared
// loading helpers, so aggregate reads work both inside and outside a
// transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ShowRepo manages persistence for the show aggregate.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// NewShowMember describes one lineup slot at show creation time.
// Band slots are expanded into per-artist consensus rows from the
// band's current roster.
type NewShowMember struct {
	MemberID   uint64
	MemberType string
	Position   *string
}

// Create inserts a pending show with its invited lineup in one
// transaction. Every band in the lineup is expanded into
// show_member_consensus rows, one per roster member, all undecided.
// The full aggregate is loaded back and returned.
func (r *ShowRepo) Create(ctx context.Context, promoterID, venueID uint64, preferredDate, preferredTime string, lineup []NewShowMember) (*model.Show, error) {
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

	const ins = `INSERT INTO shows (promoter_id, venue_id, preferred_date, preferred_time) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, promoterID, venueID, preferredDate, preferredTime)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	showID := uint64(id)

	const insMember = `INSERT INTO show_members (show_id, member_id, member_type, position) VALUES (?, ?, ?, ?)`
	const insConsensus = `INSERT INTO show_member_consensus (show_id, band_id, artist_id) VALUES (?, ?, ?)`
	for _, m := range lineup {
		if _, err := tx.ExecContext(ctx, insMember, showID, m.MemberID, m.MemberType, m.Position); err != nil {
			return nil, err
		}
		if m.MemberType != model.MemberTypeBand {
			continue
		}
		// Expand the band roster into individual consensus entries.
		rosterRows, err := tx.QueryContext(ctx, `SELECT artist_id FROM band_members WHERE band_id = ?`, m.MemberID)
		if err != nil {
			return nil, err
		}
		var roster []uint64
		for rosterRows.Next() {
			var artistID uint64
			if err := rosterRows.Scan(&artistID); err != nil {
				rosterRows.Close()
				return nil, err
			}
			roster = append(roster, artistID)
		}
		if err := rosterRows.Err(); err != nil {
			rosterRows.Close()
			return nil, err
		}
		rosterRows.Close()
		for _, artistID := range roster {
			if _, err := tx.ExecContext(ctx, insConsensus, showID, m.MemberID, artistID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, showID)
}

// GetByID loads the full show aggregate: the show row, the lineup with
// band consensus entries and any stored artist guarantees. It returns
// ErrShowNotFound when no row exists.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	return loadShow(ctx, r.db, id)
}

// VenueTerms is the payload of a negotiation commit: the selections
// the venue made in stage two of the workflow.
type VenueTerms struct {
	ShowID           uint64
	OwnerID          uint64
	TicketPriceCents int64
	VenuePercentage  int
}

// CommitVenueTerms performs the single combined write of the venue
// acceptance negotiation: it sets venue_decision, stores price and
// percentage, copies the preferred date and time into the confirmed
// columns, persists the expanded per-artist guarantees and evaluates
// the activation predicate. The whole commit is one transaction and is
// not restartable: once venue_decision is set, ErrNegotiationClosed is
// returned. A guarantee that cannot be computed (capacity missing) is
// skipped, not fatal; the negotiated economics are still persisted.
// The returned bool reports whether the show activated.
func (r *ShowRepo) CommitVenueTerms(ctx context.Context, t VenueTerms) (*model.Show, *guarantee.Schedule, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the show row for the duration of the commit and verify
	// ownership of the venue it was proposed for.
	const sel = `SELECT s.status, s.venue_decision, v.owner_id, v.capacity
	             FROM shows s
	             JOIN venues v ON v.id = s.venue_id
	             WHERE s.id = ? FOR UPDATE`
	var (
		status        string
		venueDecision bool
		ownerID       uint64
		capacity      uint32
	)
	if err := tx.QueryRowContext(ctx, sel, t.ShowID).Scan(&status, &venueDecision, &ownerID, &capacity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, false, ErrShowNotFound
		}
		return nil, nil, false, err
	}
	if ownerID != t.OwnerID {
		return nil, nil, false, ErrForbidden
	}
	if status != model.ShowStatusPending || venueDecision {
		return nil, nil, false, ErrNegotiationClosed
	}

	const upd = `UPDATE shows
	             SET venue_decision = 1,
	                 ticket_price_cents = ?,
	                 venue_percentage = ?,
	                 confirmed_date = preferred_date,
	                 confirmed_time = preferred_time
	             WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, t.TicketPriceCents, t.VenuePercentage, t.ShowID); err != nil {
		return nil, nil, false, err
	}

	members, err := loadMembers(ctx, tx, t.ShowID)
	if err != nil {
		return nil, nil, false, err
	}
	snapshot := &model.Show{VenueDecision: true, Members: members}

	// Expand the then-current member set into stored guarantees. A
	// member invited after this point is not retroactively guaranteed
	// unless the negotiation is re-run. An undetermined schedule is a
	// local failure: the commit proceeds without guarantee rows.
	sched, gerr := guarantee.Compute(guarantee.Inputs{
		Capacity:         capacity,
		TicketPriceCents: &t.TicketPriceCents,
		VenuePercentage:  &t.VenuePercentage,
	}, snapshot.TotalIndividualArtists())
	if gerr == nil {
		const insGuarantee = `INSERT INTO artist_guarantees (show_id, payee_artist_id, amount_cents) VALUES (?, ?, ?)`
		for _, payee := range snapshot.PayeeArtistIDs() {
			if _, err := tx.ExecContext(ctx, insGuarantee, t.ShowID, payee, sched.PerArtistCents); err != nil {
				return nil, nil, false, err
			}
		}
	}

	activated := false
	if snapshot.ReadyToActivate() {
		res, err := tx.ExecContext(ctx,
			`UPDATE shows SET status = ? WHERE id = ? AND status = ?`,
			model.ShowStatusActive, t.ShowID, model.ShowStatusPending)
		if err != nil {
			return nil, nil, false, err
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			activated = true
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, false, err
	}
	committed = true

	show, err := loadShow(ctx, r.db, t.ShowID)
	if err != nil {
		return nil, nil, false, err
	}
	return show, sched, activated, nil
}

// activateIfReadyTx re-evaluates the activation predicate for a show
// after a consensus-affecting write, inside the caller's transaction.
// The transition is idempotent (an already-active show is a no-op) and
// monotonic (the guarded UPDATE only ever moves PENDING to ACTIVE).
func activateIfReadyTx(ctx context.Context, tx *sql.Tx, showID uint64) (bool, error) {
	var (
		status        string
		venueDecision bool
	)
	err := tx.QueryRowContext(ctx,
		`SELECT status, venue_decision FROM shows WHERE id = ? FOR UPDATE`, showID).
		Scan(&status, &venueDecision)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, ErrShowNotFound
		}
		return false, err
	}
	if status != model.ShowStatusPending || !venueDecision {
		return false, nil
	}
	members, err := loadMembers(ctx, tx, showID)
	if err != nil {
		return false, err
	}
	snapshot := &model.Show{VenueDecision: true, Members: members}
	if !snapshot.ReadyToActivate() {
		return false, nil
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE shows SET status = ? WHERE id = ? AND status = ?`,
		model.ShowStatusActive, showID, model.ShowStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// loadShow reads the show row plus members and guarantees via the
// given querier so it can run either on the pool or inside a
// transaction.
func loadShow(ctx context.Context, q querier, id uint64) (*model.Show, error) {
	const sel = `SELECT id, promoter_id, venue_id, status, venue_decision,
	                    preferred_date, preferred_time, confirmed_date, confirmed_time,
	                    ticket_price_cents, venue_percentage, created_at
	             FROM shows WHERE id = ?`
	var (
		s             model.Show
		confirmedDate sql.NullString
		confirmedTime sql.NullString
		priceCents    sql.NullInt64
		venuePct      sql.NullInt64
	)
	err := q.QueryRowContext(ctx, sel, id).Scan(
		&s.ID, &s.PromoterID, &s.VenueID, &s.Status, &s.VenueDecision,
		&s.PreferredDate, &s.PreferredTime, &confirmedDate, &confirmedTime,
		&priceCents, &venuePct, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if confirmedDate.Valid {
		v := confirmedDate.String
		s.ConfirmedDate = &v
	}
	if confirmedTime.Valid {
		v := confirmedTime.String
		s.ConfirmedTime = &v
	}
	if priceCents.Valid {
		v := priceCents.Int64
		s.TicketPriceCents = &v
	}
	if venuePct.Valid {
		v := int(venuePct.Int64)
		s.VenuePercentage = &v
	}

	if s.Members, err = loadMembers(ctx, q, id); err != nil {
		return nil, err
	}

	const selGuarantees = `SELECT payee_artist_id, amount_cents FROM artist_guarantees WHERE show_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, selGuarantees, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var g model.ArtistGuarantee
		if err := rows.Scan(&g.PayeeArtistID, &g.AmountCents); err != nil {
			return nil, err
		}
		s.Guarantees = append(s.Guarantees, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// loadMembers reads the lineup for a show and attaches band consensus
// entries to their band rows.
func loadMembers(ctx context.Context, q querier, showID uint64) ([]model.ShowMember, error) {
	const sel = `SELECT id, member_id, member_type, position, decision FROM show_members WHERE show_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, sel, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]model.ShowMember, 0)
	byBand := make(map[uint64]int)
	for rows.Next() {
		var (
			m        model.ShowMember
			position sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.MemberID, &m.MemberType, &position, &m.Decision); err != nil {
			return nil, err
		}
		m.ShowID = showID
		if position.Valid {
			v := position.String
			m.Position = &v
		}
		if m.MemberType == model.MemberTypeBand {
			byBand[m.MemberID] = len(members)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const selConsensus = `SELECT band_id, artist_id, decision FROM show_member_consensus WHERE show_id = ? ORDER BY id`
	crows, err := q.QueryContext(ctx, selConsensus, showID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var (
			bandID uint64
			sc     model.SubConsensus
		)
		if err := crows.Scan(&bandID, &sc.ArtistID, &sc.Decision); err != nil {
			return nil, err
		}
		idx, ok := byBand[bandID]
		if !ok {
			continue
		}
		members[idx].Consensus = append(members[idx].Consensus, sc)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
