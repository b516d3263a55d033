package model

// Artist is the performer read model backing membership resolution.
// Profile data beyond the name is owned by the discovery side of the
// platform; this core only needs the identity and the link to the
// user account that controls it.
//
// Fields:
//  ID     – primary key identifier.
//  UserID – account that controls this solo identity.
//  Name   – display name of the performer.
type Artist struct {
	ID     uint64 // artists.id
	UserID uint64 // artists.user_id
	Name   string // artists.name
}

// Band groups multiple artists under a shared identity.  Bands never
// vote as a unit: every consensus decision is taken by the individual
// artists on the roster.
//
// Fields:
//  ID   – primary key identifier.
//  Name – display name of the band.
type Band struct {
	ID   uint64 // bands.id
	Name string // bands.name
}

// BandMember links an artist to a band roster.  Rows in the
// `band_members` table are the source for expanding a band invitation
// into per-artist consensus entries.
//
// Fields:
//  BandID   – band the artist belongs to.
//  ArtistID – roster member.
type BandMember struct {
	BandID   uint64 // band_members.band_id
	ArtistID uint64 // band_members.artist_id
}
