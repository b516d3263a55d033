package guarantee

import "testing"

func ptrI64(v int64) *int64 { return &v }
func ptrInt(v int) *int     { return &v }

func TestComputeSplit(t *testing.T) {
	// 200 cap * $20 at 15% venue share, 2 solo artists + 3-member band.
	sched, err := Compute(Inputs{
		Capacity:         200,
		TicketPriceCents: ptrI64(2000),
		VenuePercentage:  ptrInt(15),
	}, 5)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}

	if sched.MaxRevenueCents != 400000 {
		t.Fatalf("max revenue = %d, want 400000", sched.MaxRevenueCents)
	}
	if sched.VenueShareCents != 60000 || sched.ArtistPoolCents != 340000 {
		t.Fatalf("split = %d/%d, want 60000/340000", sched.VenueShareCents, sched.ArtistPoolCents)
	}
	if sched.PerArtistCents != 68000 {
		t.Fatalf("per artist = %d, want 68000", sched.PerArtistCents)
	}

	wantVenue := Tier{Party: PartyVenue, SoldOut: 60000, SeventyFivePct: 45000, FiftyPct: 30000, TwentyFivePct: 15000}
	if sched.Venue != wantVenue {
		t.Fatalf("venue tiers = %+v, want %+v", sched.Venue, wantVenue)
	}
	wantArtist := Tier{Party: PartyArtist, SoldOut: 68000, SeventyFivePct: 51000, FiftyPct: 34000, TwentyFivePct: 17000}
	if sched.PerArtist != wantArtist {
		t.Fatalf("artist tiers = %+v, want %+v", sched.PerArtist, wantArtist)
	}
}

func TestComputeNotDetermined(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
	}{
		{"missing price", Inputs{Capacity: 100, VenuePercentage: ptrInt(20)}},
		{"missing percentage", Inputs{Capacity: 100, TicketPriceCents: ptrI64(1500)}},
		{"zero capacity", Inputs{TicketPriceCents: ptrI64(1500), VenuePercentage: ptrInt(20)}},
		{"zero price", Inputs{Capacity: 100, TicketPriceCents: ptrI64(0), VenuePercentage: ptrInt(20)}},
		{"percentage over 100", Inputs{Capacity: 100, TicketPriceCents: ptrI64(1500), VenuePercentage: ptrInt(101)}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sched, err := Compute(tc.in, 3)
			if err != ErrNotDetermined {
				t.Fatalf("err = %v, want ErrNotDetermined", err)
			}
			if sched != nil {
				t.Fatalf("expected nil schedule, got %+v", sched)
			}
		})
	}
}

func TestComputeInvariants(t *testing.T) {
	cases := []struct {
		capacity uint32
		price    int64
		pct      int
		artists  int
	}{
		{200, 2000, 15, 5},
		{150, 1250, 30, 4},
		{999, 3333, 17, 7},
		{1, 100, 0, 1},
		{50, 2500, 100, 3},
		{80, 1999, 33, 0},
	}
	for _, tc := range cases {
		sched, err := Compute(Inputs{
			Capacity:         tc.capacity,
			TicketPriceCents: ptrI64(tc.price),
			VenuePercentage:  ptrInt(tc.pct),
		}, tc.artists)
		if err != nil {
			t.Fatalf("Compute(%+v): %v", tc, err)
		}

		// Revenue split is exact: no cent is created or lost.
		if sched.VenueShareCents+sched.ArtistPoolCents != sched.MaxRevenueCents {
			t.Fatalf("split leaks cents: %d + %d != %d",
				sched.VenueShareCents, sched.ArtistPoolCents, sched.MaxRevenueCents)
		}

		for _, tier := range []Tier{sched.Venue, sched.PerArtist} {
			if tier.SoldOut < tier.SeventyFivePct || tier.SeventyFivePct < tier.FiftyPct ||
				tier.FiftyPct < tier.TwentyFivePct || tier.TwentyFivePct < 0 {
				t.Fatalf("tiers not monotonic: %+v", tier)
			}
		}

		// Summing the per-artist sold-out guarantee over all artists
		// never exceeds the pool.
		if total := sched.PerArtistCents * int64(tc.artists); total > sched.ArtistPoolCents {
			t.Fatalf("per-artist total %d exceeds pool %d", total, sched.ArtistPoolCents)
		}
		if tc.artists == 0 && sched.PerArtistCents != 0 {
			t.Fatalf("per artist with no artists = %d, want 0", sched.PerArtistCents)
		}
	}
}

func TestTiersFromStored(t *testing.T) {
	tier := TiersFromStored(68000)
	if tier.Party != PartyArtist {
		t.Fatalf("party = %q, want %q", tier.Party, PartyArtist)
	}
	if tier.SoldOut != 68000 || tier.SeventyFivePct != 51000 || tier.FiftyPct != 34000 || tier.TwentyFivePct != 17000 {
		t.Fatalf("unexpected tiers: %+v", tier)
	}
}
