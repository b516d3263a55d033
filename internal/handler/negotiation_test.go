package handler

import (
	"testing"

	"github.com/gigstage/show-booking/internal/model"
)

func TestSelectionValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     negotiationSelectionReq
		wantErr bool
	}{
		{"offered pair", negotiationSelectionReq{TicketPriceCents: 2000, VenuePercentage: 15}, false},
		{"price off menu", negotiationSelectionReq{TicketPriceCents: 1234, VenuePercentage: 15}, true},
		{"percentage off menu", negotiationSelectionReq{TicketPriceCents: 2000, VenuePercentage: 17}, true},
		{"zero selection", negotiationSelectionReq{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.req.validate()
			if (msg != "") != tc.wantErr {
				t.Fatalf("validate() = %q, wantErr=%v", msg, tc.wantErr)
			}
		})
	}
}

func TestGuaranteeBlockUndetermined(t *testing.T) {
	price := int64(2000)
	pct := 15

	show := &model.Show{
		Members: []model.ShowMember{{MemberType: model.MemberTypeArtist, MemberID: 1}},
	}
	venue := &model.Venue{Capacity: 200}

	// No terms committed yet: block must be nil, never a zero schedule.
	if got := guaranteeBlock(show, venue); got != nil {
		t.Fatalf("guaranteeBlock without terms = %v, want nil", got)
	}

	show.TicketPriceCents = &price
	show.VenuePercentage = &pct
	if got := guaranteeBlock(show, venue); got == nil {
		t.Fatal("guaranteeBlock with full terms = nil, want schedule")
	}

	// Missing capacity keeps the block undetermined even with terms.
	if got := guaranteeBlock(show, nil); got != nil {
		t.Fatalf("guaranteeBlock without venue = %v, want nil", got)
	}
}
