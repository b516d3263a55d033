package model

import "time"

// Venue is the venue read model.  Capacity is the only quantity this
// core actually computes with: it bounds ticket sales and feeds the
// guarantee calculator.  A venue without a positive capacity leaves
// guarantees undetermined.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user account that negotiates on behalf of the venue.
//  Name      – display name of the venue.
//  City      – display city.
//  Capacity  – maximum number of tickets that can be sold (> 0).
//  CreatedAt – creation timestamp.
type Venue struct {
	ID        uint64    // venues.id
	OwnerID   uint64    // venues.owner_id
	Name      string    // venues.name
	City      string    // venues.city
	Capacity  uint32    // venues.capacity
	CreatedAt time.Time // venues.created_at
}
