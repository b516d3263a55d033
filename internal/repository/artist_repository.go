package repository

import (
	"context"
	"database/sql"

	"github.com/gigstage/show-booking/internal/model"
)

// ArtistRepo reads the performer read models: solo artist identities
// and band rosters. This core does not own these records; it only
// needs them to resolve which identities an account can act as.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo returns an ArtistRepo bound to the given database.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

// CreateProfile inserts the solo artist identity for a user account
// and returns its ID. Each account owns at most one profile.
func (r *ArtistRepo) CreateProfile(ctx context.Context, userID uint64, name string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO artists (user_id, name) VALUES (?, ?)`, userID, name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches an artist by ID. sql.ErrNoRows passes through;
// callers doing speculative checks degrade it to absent.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (model.Artist, error) {
	var a model.Artist
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM artists WHERE id = ? LIMIT 1`, id).
		Scan(&a.ID, &a.UserID, &a.Name)
	return a, err
}

// GetByUserID fetches the solo artist identity controlled by a user
// account, if any.
func (r *ArtistRepo) GetByUserID(ctx context.Context, userID uint64) (model.Artist, error) {
	var a model.Artist
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM artists WHERE user_id = ? LIMIT 1`, userID).
		Scan(&a.ID, &a.UserID, &a.Name)
	return a, err
}

// BandsForArtist lists the bands an artist belongs to.
func (r *ArtistRepo) BandsForArtist(ctx context.Context, artistID uint64) ([]model.Band, error) {
	const q = `SELECT b.id, b.name
	           FROM bands b
	           JOIN band_members bm ON bm.band_id = b.id
	           WHERE bm.artist_id = ?
	           ORDER BY b.id`
	rows, err := r.db.QueryContext(ctx, q, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bands := make([]model.Band, 0)
	for rows.Next() {
		var b model.Band
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bands, nil
}

// RosterArtistIDs lists the artist IDs on a band's current roster.
func (r *ArtistRepo) RosterArtistIDs(ctx context.Context, bandID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT artist_id FROM band_members WHERE band_id = ? ORDER BY artist_id`, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
