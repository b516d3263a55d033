package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gigstage/show-booking/internal/model"
)

// ErrVenueNotFound indicates a venue referenced by ID does not exist.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo reads the venue read model. Capacity is the only field
// this core computes with; everything else is display data.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// GetByID fetches a venue by ID.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	var v model.Venue
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, city, capacity, created_at FROM venues WHERE id = ? LIMIT 1`, id).
		Scan(&v.ID, &v.OwnerID, &v.Name, &v.City, &v.Capacity, &v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Venue{}, ErrVenueNotFound
		}
		return model.Venue{}, err
	}
	return v, nil
}

// GetForShow fetches the venue a show was proposed for.
func (r *VenueRepo) GetForShow(ctx context.Context, showID uint64) (model.Venue, error) {
	const q = `SELECT v.id, v.owner_id, v.name, v.city, v.capacity, v.created_at
	           FROM venues v
	           JOIN shows s ON s.venue_id = v.id
	           WHERE s.id = ? LIMIT 1`
	var v model.Venue
	err := r.db.QueryRowContext(ctx, q, showID).
		Scan(&v.ID, &v.OwnerID, &v.Name, &v.City, &v.Capacity, &v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Venue{}, ErrShowNotFound
		}
		return model.Venue{}, err
	}
	return v, nil
}
