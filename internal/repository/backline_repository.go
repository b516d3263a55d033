package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gigstage/show-booking/internal/model"
)

// ErrApplicationNotFound indicates a backline application referenced
// by ID does not exist.
var ErrApplicationNotFound = errors.New("backline application not found")

// BacklineRepo persists backline (opening act) applications and their
// votes. Applications are created by a performer action, mutated only
// by vote additions and never deleted once any vote exists. Votes use
// the same atomic at-most-once ledger primitive as promotion votes,
// keyed by application instead of show.
type BacklineRepo struct {
	db *sql.DB
}

// NewBacklineRepo returns a BacklineRepo bound to the given database.
func NewBacklineRepo(db *sql.DB) *BacklineRepo {
	return &BacklineRepo{db: db}
}

// Apply creates an application for the given identity+type pair on a
// show. The unique key on (show_id, applicant_id, applicant_type)
// rejects a second live application of the same identity as
// ErrAlreadyApplied; a solo artist blocked from re-applying solo may
// still apply through one of their bands.
func (r *BacklineRepo) Apply(ctx context.Context, showID, applicantID uint64, applicantType string) (*model.BacklineApplication, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO backline_applications (show_id, applicant_id, applicant_type, status) VALUES (?, ?, ?, ?)`,
		showID, applicantID, applicantType, model.BacklineStatusPending)
	if err != nil {
		// 1062 = duplicate key, 1452 = foreign key (unknown show).
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			return nil, ErrAlreadyApplied
		}
		if strings.Contains(msg, "1452") {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID loads a single application with its derived vote count.
func (r *BacklineRepo) GetByID(ctx context.Context, id uint64) (*model.BacklineApplication, error) {
	const q = `SELECT a.id, a.show_id, a.applicant_id, a.applicant_type, a.status, a.created_at,
	                  (SELECT COUNT(*) FROM backline_votes bv WHERE bv.application_id = a.id)
	           FROM backline_applications a
	           WHERE a.id = ?`
	var app model.BacklineApplication
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&app.ID, &app.ShowID, &app.ApplicantID, &app.ApplicantType,
		&app.Status, &app.CreatedAt, &app.VoteCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// ListByShow returns all applications for a show, oldest first, each
// with its vote count.
func (r *BacklineRepo) ListByShow(ctx context.Context, showID uint64) ([]model.BacklineApplication, error) {
	const q = `SELECT a.id, a.show_id, a.applicant_id, a.applicant_type, a.status, a.created_at,
	                  COUNT(bv.voter_id)
	           FROM backline_applications a
	           LEFT JOIN backline_votes bv ON bv.application_id = a.id
	           WHERE a.show_id = ?
	           GROUP BY a.id, a.show_id, a.applicant_id, a.applicant_type, a.status, a.created_at
	           ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]model.BacklineApplication, 0)
	for rows.Next() {
		var app model.BacklineApplication
		if err := rows.Scan(
			&app.ID, &app.ShowID, &app.ApplicantID, &app.ApplicantType,
			&app.Status, &app.CreatedAt, &app.VoteCount,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// Vote records a voter on an application and reports whether the vote
// was newly added. Same contract as the promotion ledger: a repeat
// vote is a no-op false, not an error. Voting on an application that
// does not exist surfaces ErrApplicationNotFound via the foreign key.
func (r *BacklineRepo) Vote(ctx context.Context, applicationID, voterID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO backline_votes (application_id, voter_id) VALUES (?, ?)`,
		applicationID, voterID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") {
			return false, ErrApplicationNotFound
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
