// Package guarantee computes contractual payout tiers from ticket
// economics.  All functions are pure and work in integer cents; there
// is no rounding of fractional dollars anywhere in the core.
package guarantee

import "errors"

// ErrNotDetermined is returned when capacity, ticket price or venue
// percentage is missing or out of range.  An undetermined guarantee is
// a distinct state from a zero guarantee: callers surface it as "not
// yet determined", never as $0.
var ErrNotDetermined = errors.New("guarantee not yet determined")

// Party tags for a tier schedule.
const (
	PartyArtist = "artist"
	PartyVenue  = "venue"
)

// Tier holds the payout amounts, in cents, a party would receive at
// the four sales thresholds.  Amounts are floored, so
// SoldOut >= SeventyFivePct >= FiftyPct >= TwentyFivePct always holds.
type Tier struct {
	Party          string `json:"type"`
	SoldOut        int64  `json:"sold_out"`
	SeventyFivePct int64  `json:"seventy_five_pct"`
	FiftyPct       int64  `json:"fifty_pct"`
	TwentyFivePct  int64  `json:"twenty_five_pct"`
}

// Schedule is the full guarantee breakdown for one show: the revenue
// split plus the venue tier and the per-individual-artist tier.
type Schedule struct {
	MaxRevenueCents int64 `json:"max_revenue_cents"`
	VenueShareCents int64 `json:"venue_share_cents"`
	ArtistPoolCents int64 `json:"artist_pool_cents"`
	PerArtistCents  int64 `json:"per_artist_cents"`
	Venue           Tier  `json:"venue"`
	PerArtist       Tier  `json:"per_artist"`
}

// Inputs carries the three venue-side quantities the calculator needs.
// Pointers model "not yet negotiated": a nil price or percentage makes
// the whole schedule undetermined.
type Inputs struct {
	Capacity         uint32
	TicketPriceCents *int64
	VenuePercentage  *int
}

// Compute derives the payout schedule for a show.  totalArtists is the
// number of individual artists the pool is split between (bands are
// already expanded by the caller; zero artists yields a zero per-artist
// amount, not an error).  The venue share is floored and the artist
// pool is the exact remainder, so venue share + artist pool always
// equals capacity * price.
func Compute(in Inputs, totalArtists int) (*Schedule, error) {
	if in.Capacity == 0 || in.TicketPriceCents == nil || in.VenuePercentage == nil {
		return nil, ErrNotDetermined
	}
	price := *in.TicketPriceCents
	pct := *in.VenuePercentage
	if price <= 0 || pct < 0 || pct > 100 {
		return nil, ErrNotDetermined
	}

	maxRevenue := int64(in.Capacity) * price
	venueShare := maxRevenue * int64(pct) / 100
	artistPool := maxRevenue - venueShare

	var perArtist int64
	if totalArtists > 0 {
		perArtist = artistPool / int64(totalArtists)
	}

	return &Schedule{
		MaxRevenueCents: maxRevenue,
		VenueShareCents: venueShare,
		ArtistPoolCents: artistPool,
		PerArtistCents:  perArtist,
		Venue:           tiersFor(PartyVenue, venueShare),
		PerArtist:       tiersFor(PartyArtist, perArtist),
	}, nil
}

// tiersFor expands a sold-out amount into the four thresholds.
func tiersFor(party string, soldOut int64) Tier {
	return Tier{
		Party:          party,
		SoldOut:        soldOut,
		SeventyFivePct: soldOut * 3 / 4,
		FiftyPct:       soldOut / 2,
		TwentyFivePct:  soldOut / 4,
	}
}

// TiersFromStored rebuilds an artist's tier schedule from a stored
// sold-out guarantee.  Stored amounts are authoritative once the venue
// commit has written them; this never recomputes from the pool split.
func TiersFromStored(amountCents int64) Tier {
	return tiersFor(PartyArtist, amountCents)
}
