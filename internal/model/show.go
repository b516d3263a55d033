package model

import "time"

// Show statuses.  Only PENDING and ACTIVE are ever written by this
// service; CANCELLED and REJECTED exist so the column can represent
// them if a future flow needs to.  The PENDING -> ACTIVE transition is
// one-way: nothing moves a show back to PENDING.
const (
	ShowStatusPending   = "PENDING"
	ShowStatusActive    = "ACTIVE"
	ShowStatusCancelled = "CANCELLED"
	ShowStatusRejected  = "REJECTED"
)

// Member types for show lineups and backline applications.
const (
	MemberTypeArtist = "ARTIST"
	MemberTypeBand   = "BAND"
)

// Show is the booking aggregate.  A promoter proposes it, every invited
// member decides, the venue sets the economics, and once everyone has
// consented the show activates.  Prices are integer cents throughout;
// a nil TicketPriceCents or VenuePercentage means the venue has not yet
// committed terms and all guarantees are undetermined.
//
// Fields:
//  ID               – primary key identifier.
//  PromoterID       – user who proposed the show.
//  VenueID          – venue the show is proposed for.
//  Status           – PENDING until the activation predicate holds.
//  VenueDecision    – whether the venue committed its terms.
//  PreferredDate    – date requested by the promoter ("2006-01-02").
//  PreferredTime    – start time requested by the promoter ("20:00").
//  ConfirmedDate    – date fixed by the venue commit (nullable).
//  ConfirmedTime    – start time fixed by the venue commit (nullable).
//  TicketPriceCents – ticket price in cents (nullable).
//  VenuePercentage  – venue revenue share, 0..100 (nullable).
//  Members          – invited lineup; bands carry per-artist consensus.
//  Guarantees       – stored per-artist sold-out payouts, authoritative
//                     once written by the venue commit.
//  CreatedAt        – creation timestamp.
type Show struct {
	ID               uint64            // shows.id
	PromoterID       uint64            // shows.promoter_id
	VenueID          uint64            // shows.venue_id
	Status           string            // shows.status
	VenueDecision    bool              // shows.venue_decision
	PreferredDate    string            // shows.preferred_date
	PreferredTime    string            // shows.preferred_time
	ConfirmedDate    *string           // shows.confirmed_date (nullable)
	ConfirmedTime    *string           // shows.confirmed_time (nullable)
	TicketPriceCents *int64            // shows.ticket_price_cents (nullable)
	VenuePercentage  *int              // shows.venue_percentage (nullable)
	Members          []ShowMember      // show_members rows (+ consensus)
	Guarantees       []ArtistGuarantee // artist_guarantees rows
	CreatedAt        time.Time         // shows.created_at
}

// ShowMember is one invited slot in a lineup: either a solo artist or a
// band.  For an artist the Decision field is the member's own vote.
// For a band the Decision field is ignored and the effective decision
// is computed from the Consensus entries; it is never stored.
//
// Fields:
//  ID         – primary key identifier.
//  ShowID     – show the member is invited to.
//  MemberID   – artist ID or band ID depending on MemberType.
//  MemberType – ARTIST or BAND.
//  Position   – optional billing such as "headliner" (nullable).
//  Decision   – the artist's own accept/decline (artists only).
//  Consensus  – per-artist decisions for a band's roster (bands only).
type ShowMember struct {
	ID         uint64         // show_members.id
	ShowID     uint64         // show_members.show_id
	MemberID   uint64         // show_members.member_id
	MemberType string         // show_members.member_type
	Position   *string        // show_members.position (nullable)
	Decision   bool           // show_members.decision
	Consensus  []SubConsensus // show_member_consensus rows for bands
}

// SubConsensus is one band member's individual accept/decline for a
// specific show.
//
// Fields:
//  ArtistID – roster member casting the decision.
//  Decision – accept (true) or decline (false).
type SubConsensus struct {
	ArtistID uint64 // show_member_consensus.artist_id
	Decision bool   // show_member_consensus.decision
}

// ArtistGuarantee is a stored payout commitment for one individual
// artist at the sold-out tier, written by the venue commit.  Lower
// tiers are derived fractions of this amount.
//
// Fields:
//  PayeeArtistID – artist being paid.
//  AmountCents   – sold-out payout in cents.
type ArtistGuarantee struct {
	PayeeArtistID uint64 // artist_guarantees.payee_artist_id
	AmountCents   int64  // artist_guarantees.amount_cents
}

// EffectiveDecision resolves a member's vote.  An artist votes for
// itself.  A band's vote is the conjunction of its roster's entries; a
// band with no consensus rows resolves to false so that a memberless
// band can never push a show to ACTIVE.
func (m ShowMember) EffectiveDecision() bool {
	if m.MemberType != MemberTypeBand {
		return m.Decision
	}
	if len(m.Consensus) == 0 {
		return false
	}
	for _, sc := range m.Consensus {
		if !sc.Decision {
			return false
		}
	}
	return true
}

// AllMembersAccepted reports whether every invited member's effective
// decision is true.  A show with no members has nothing left to
// consent, so the answer is true and activation hinges on the venue.
func (s *Show) AllMembersAccepted() bool {
	for _, m := range s.Members {
		if !m.EffectiveDecision() {
			return false
		}
	}
	return true
}

// ReadyToActivate is the activation predicate: the venue committed and
// every member consented.  Callers apply the actual status transition;
// re-evaluating on an already-active show is a no-op by construction.
func (s *Show) ReadyToActivate() bool {
	return s.VenueDecision && s.AllMembersAccepted()
}

// HasPerformer reports whether the given artist performs on the show,
// either as a direct member or through any band on the lineup.  Unknown
// IDs simply resolve to false; the check is called speculatively.
func (s *Show) HasPerformer(artistID uint64) bool {
	for _, m := range s.Members {
		switch m.MemberType {
		case MemberTypeArtist:
			if m.MemberID == artistID {
				return true
			}
		case MemberTypeBand:
			for _, sc := range m.Consensus {
				if sc.ArtistID == artistID {
					return true
				}
			}
		}
	}
	return false
}

// TotalIndividualArtists counts the people the artist pool is divided
// between: direct artist members plus every band's roster entries.  A
// band's own membership row never counts as a payee.
func (s *Show) TotalIndividualArtists() int {
	n := 0
	for _, m := range s.Members {
		switch m.MemberType {
		case MemberTypeArtist:
			n++
		case MemberTypeBand:
			n += len(m.Consensus)
		}
	}
	return n
}

// PayeeArtistIDs expands the lineup into the flat list of individual
// artists that receive a guarantee, in lineup order.
func (s *Show) PayeeArtistIDs() []uint64 {
	ids := make([]uint64, 0, s.TotalIndividualArtists())
	for _, m := range s.Members {
		switch m.MemberType {
		case MemberTypeArtist:
			ids = append(ids, m.MemberID)
		case MemberTypeBand:
			for _, sc := range m.Consensus {
				ids = append(ids, sc.ArtistID)
			}
		}
	}
	return ids
}
