// Package queue defines message payloads exchanged over the message broker.
package queue

// ShowConfirmedEvent is published once per recipient when a venue
// commits terms and the show goes live. Each message is addressed to a
// single party so the payload can be tailored: performers see their
// own guarantee schedule base amount, the promoter gets the commercial
// terms without any per-artist figure. Downstream consumers can notify
// or log without querying the primary database.
type ShowConfirmedEvent struct {
	RecipientID      uint64 `json:"recipient_id"`
	RecipientRole    string `json:"recipient_role"`
	ShowID           uint64 `json:"show_id"`
	VenueName        string `json:"venue_name"`
	VenueCity        string `json:"venue_city"`
	ConfirmedDate    string `json:"confirmed_date"`
	ConfirmedTime    string `json:"confirmed_time"`
	TicketPriceCents int64  `json:"ticket_price_cents"`
	VenuePercentage  int    `json:"venue_percentage"`
	GuaranteeCents   *int64 `json:"guarantee_cents,omitempty"`
	ConfirmedAt      string `json:"confirmed_at"`
}
