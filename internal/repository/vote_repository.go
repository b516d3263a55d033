package repository

import (
	"context"
	"database/sql"
)

// VoteRepo is the promotion vote ledger: an at-most-once-per-user
// voter set keyed by show. The composite primary key on
// (show_id, user_id) makes the add operation a single atomic
// check-and-append on the server; there is deliberately no
// read-then-write path here, because two concurrent votes from the
// same user must never both succeed.
type VoteRepo struct {
	db *sql.DB
}

// NewVoteRepo returns a VoteRepo bound to the given database.
func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// VoteInfo is the combined read the clients poll: the total count and
// whether the asking user has voted.
type VoteInfo struct {
	VoteCount    int  `json:"vote_count"`
	UserHasVoted bool `json:"user_has_voted"`
}

// AddVote records a vote and reports whether it was newly recorded.
// INSERT IGNORE against the composite primary key collapses a
// duplicate into zero affected rows, so "already voted" is a harmless
// false, never an error.
func (r *VoteRepo) AddVote(ctx context.Context, showID, userID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO show_votes (show_id, user_id) VALUES (?, ?)`,
		showID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UserHasVoted reports whether the user is in the show's voter set.
func (r *VoteRepo) UserHasVoted(ctx context.Context, showID, userID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM show_votes WHERE show_id = ? AND user_id = ?)`,
		showID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// VoteCount returns the size of the show's voter set, 0 when nobody
// has voted yet.
func (r *VoteRepo) VoteCount(ctx context.Context, showID uint64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM show_votes WHERE show_id = ?`, showID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Info returns the count together with the asking user's vote state.
// A nil userID (anonymous caller) reports UserHasVoted false.
func (r *VoteRepo) Info(ctx context.Context, showID uint64, userID *uint64) (VoteInfo, error) {
	count, err := r.VoteCount(ctx, showID)
	if err != nil {
		return VoteInfo{}, err
	}
	info := VoteInfo{VoteCount: count}
	if userID != nil {
		if info.UserHasVoted, err = r.UserHasVoted(ctx, showID, *userID); err != nil {
			return VoteInfo{}, err
		}
	}
	return info, nil
}
