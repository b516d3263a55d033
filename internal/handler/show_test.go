package handler

import (
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gigstage/show-booking/internal/guarantee"
	"github.com/gigstage/show-booking/internal/model"
)

// Stored guarantee rows are authoritative: they render even when the
// pool split cannot be recomputed, and every payee appears.
func TestGuaranteeBlockStoredRowsWithoutVenue(t *testing.T) {
	show := &model.Show{
		Members: []model.ShowMember{
			{MemberType: model.MemberTypeArtist, MemberID: 9},
			{MemberType: model.MemberTypeBand, MemberID: 3, Consensus: []model.SubConsensus{
				{ArtistID: 11}, {ArtistID: 12},
			}},
		},
		Guarantees: []model.ArtistGuarantee{
			{PayeeArtistID: 9, AmountCents: 53333},
			{PayeeArtistID: 11, AmountCents: 53333},
			{PayeeArtistID: 12, AmountCents: 53333},
		},
	}

	got := guaranteeBlock(show, nil)
	if got == nil {
		t.Fatal("guaranteeBlock with stored rows = nil")
	}
	block, ok := got.(echo.Map)
	if !ok {
		t.Fatalf("guaranteeBlock returned %T, want echo.Map", got)
	}

	perArtist, ok := block["per_artist"].(guarantee.Tier)
	if !ok || perArtist.SoldOut != 53333 {
		t.Fatalf("per_artist = %+v, want sold-out 53333", block["per_artist"])
	}
	payees, ok := block["payees"].([]echo.Map)
	if !ok || len(payees) != 3 {
		t.Fatalf("payees = %v, want 3 entries", block["payees"])
	}
	if payees[1]["payee_artist_id"] != uint64(11) {
		t.Fatalf("payees[1] = %v, want payee 11", payees[1])
	}
	// Capacity is unknown here, so no recomputed pool figures appear.
	if _, present := block["max_revenue_cents"]; present {
		t.Fatal("max_revenue_cents rendered without a capacity")
	}
}

func TestGuaranteeBlockStoredRowsWithFullTerms(t *testing.T) {
	price := int64(2000)
	pct := 20

	show := &model.Show{
		TicketPriceCents: &price,
		VenuePercentage:  &pct,
		Members: []model.ShowMember{
			{MemberType: model.MemberTypeArtist, MemberID: 9},
		},
		Guarantees: []model.ArtistGuarantee{
			{PayeeArtistID: 9, AmountCents: 160000},
		},
	}
	venue := &model.Venue{Capacity: 100}

	block, ok := guaranteeBlock(show, venue).(echo.Map)
	if !ok {
		t.Fatal("guaranteeBlock with stored rows and terms = nil")
	}
	if block["max_revenue_cents"] != int64(200000) {
		t.Fatalf("max_revenue_cents = %v, want 200000", block["max_revenue_cents"])
	}
	perArtist, _ := block["per_artist"].(guarantee.Tier)
	if perArtist.SoldOut != 160000 {
		t.Fatalf("per_artist sold-out = %d, want the stored 160000", perArtist.SoldOut)
	}
}
