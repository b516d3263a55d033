package repository

import (
	"context"
	"database/sql"

	"github.com/gigstage/show-booking/internal/model"
)

// MemberRepo records accept/decline decisions for show members. For a
// band member the recorded unit is the sub-member's consensus entry;
// the band's own decision is always computed from those entries and
// never written. Every decision write re-evaluates the activation
// predicate before the transaction commits, so a client's cached view
// of "everyone accepted" is never trusted.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo returns a MemberRepo bound to the given database.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

// DecideArtist stores a solo artist's decision for a show. Decisions
// may be flipped while the show is pending; once the show is active
// (or otherwise closed) the write is refused with ErrConflict. A
// caller that is not on the lineup gets ErrForbidden. The returned
// bool reports whether this write activated the show.
func (r *MemberRepo) DecideArtist(ctx context.Context, showID, artistID uint64, decision bool) (bool, error) {
	return r.decide(ctx, showID, decision, func(ctx context.Context, tx *sql.Tx) error {
		var memberRowID uint64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM show_members WHERE show_id = ? AND member_id = ? AND member_type = ? FOR UPDATE`,
			showID, artistID, model.MemberTypeArtist).Scan(&memberRowID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrForbidden
			}
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE show_members SET decision = ?, decided_at = NOW() WHERE id = ?`,
			decision, memberRowID)
		return err
	})
}

// DecideBandMember stores one band member's individual decision for a
// show. The artist must be on the band's roster for that show, i.e. a
// consensus row must exist; otherwise ErrForbidden is returned.
func (r *MemberRepo) DecideBandMember(ctx context.Context, showID, bandID, artistID uint64, decision bool) (bool, error) {
	return r.decide(ctx, showID, decision, func(ctx context.Context, tx *sql.Tx) error {
		var rowID uint64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM show_member_consensus WHERE show_id = ? AND band_id = ? AND artist_id = ? FOR UPDATE`,
			showID, bandID, artistID).Scan(&rowID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrForbidden
			}
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE show_member_consensus SET decision = ?, decided_at = NOW() WHERE id = ?`,
			decision, rowID)
		return err
	})
}

// decide wraps the shared transaction shape of a decision write: lock
// the show, verify it is still pending, apply the write, re-run the
// activation trigger, commit.
func (r *MemberRepo) decide(ctx context.Context, showID uint64, decision bool, write func(context.Context, *sql.Tx) error) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM shows WHERE id = ? FOR UPDATE`, showID).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return false, ErrShowNotFound
		}
		return false, err
	}
	if status != model.ShowStatusPending {
		return false, ErrConflict
	}

	if err := write(ctx, tx); err != nil {
		return false, err
	}

	activated := false
	if decision {
		// Only an accept can complete consensus; a decline leaves the
		// show pending and skips the predicate walk.
		if activated, err = activateIfReadyTx(ctx, tx, showID); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return activated, nil
}
