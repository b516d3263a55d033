package model

import "time"

// Backline application statuses.  Applications start in
// PENDING_CONSENSUS and may be promoted to ACTIVE by a flow outside
// this core; they are never deleted once any vote exists.
const (
	BacklineStatusPending = "PENDING_CONSENSUS"
	BacklineStatusActive  = "ACTIVE"
)

// BacklineApplication is a request by a performer to join an existing
// show as an opening act.  The same identity+type pair can only hold
// one live application per show; a solo artist blocked from applying
// again as solo may still apply through a band.
//
// Fields:
//  ID            – primary key identifier.
//  ShowID        – show applied to.
//  ApplicantID   – artist ID or band ID depending on ApplicantType.
//  ApplicantType – ARTIST or BAND.
//  Status        – PENDING_CONSENSUS or ACTIVE.
//  VoteCount     – derived, number of distinct voters.
//  CreatedAt     – creation timestamp.
type BacklineApplication struct {
	ID            uint64    // backline_applications.id
	ShowID        uint64    // backline_applications.show_id
	ApplicantID   uint64    // backline_applications.applicant_id
	ApplicantType string    // backline_applications.applicant_type
	Status        string    // backline_applications.status
	VoteCount     int       // derived: COUNT(backline_votes)
	CreatedAt     time.Time // backline_applications.created_at
}
