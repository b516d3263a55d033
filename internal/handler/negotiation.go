package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/gigstage/show-booking/internal/guarantee"
	"github.com/gigstage/show-booking/internal/model"
	"github.com/gigstage/show-booking/internal/queue"
	"github.com/gigstage/show-booking/internal/repository"
	queuepublisher "github.com/gigstage/show-booking/internal/service"
)

// Offered option sets for the negotiation workflow. The venue picks
// one value from each; commits outside these sets are rejected.
var (
	ticketPriceOptionsCents = []int64{1500, 2000, 2500, 3000, 3500, 4000, 5000}
	venuePercentageOptions  = []int{10, 15, 20, 25, 30}
)

// NegotiationHandler runs the three-stage venue acceptance workflow:
// view the pending show with the offered terms, preview a settlement
// schedule for a candidate selection, and commit the chosen terms.
type NegotiationHandler struct {
	Shows   *repository.ShowRepo
	Venues  *repository.VenueRepo
	Artists *repository.ArtistRepo
}

func NewNegotiationHandler(s *repository.ShowRepo, v *repository.VenueRepo, a *repository.ArtistRepo) *NegotiationHandler {
	return &NegotiationHandler{Shows: s, Venues: v, Artists: a}
}

// View returns the negotiation picture for the venue owner: the show
// with its current consensus state plus the offered price and
// percentage option sets.
func (h *NegotiationHandler) View(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venue, err := h.Venues.GetForShow(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if venue.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show": showDetail(show, &venue, nil),
		"offered": echo.Map{
			"ticket_price_cents_options": ticketPriceOptionsCents,
			"venue_percentage_options":   venuePercentageOptions,
		},
		"negotiation_open": show.Status == model.ShowStatusPending && !show.VenueDecision,
	})
}

type negotiationSelectionReq struct {
	TicketPriceCents int64 `json:"ticket_price_cents"`
	VenuePercentage  int   `json:"venue_percentage"`
}

func (r negotiationSelectionReq) validate() string {
	if !containsInt64(ticketPriceOptionsCents, r.TicketPriceCents) {
		return "ticket_price_cents not in offered set"
	}
	if !containsInt(venuePercentageOptions, r.VenuePercentage) {
		return "venue_percentage not in offered set"
	}
	return ""
}

// Review previews the settlement schedule for a candidate selection
// without writing anything.
func (h *NegotiationHandler) Review(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req negotiationSelectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venue, err := h.Venues.GetForShow(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if venue.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	price := req.TicketPriceCents
	pct := req.VenuePercentage
	sched, err := guarantee.Compute(guarantee.Inputs{
		Capacity:         venue.Capacity,
		TicketPriceCents: &price,
		VenuePercentage:  &pct,
	}, show.TotalIndividualArtists())
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "guarantee not determined for this selection"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"selection": req,
		"schedule":  sched,
	})
}

// Commit applies the venue's selection: a single transactional write
// that locks in the terms, stores per-artist guarantees, and runs the
// activation trigger. Confirmation notifications fan out after the
// commit and never affect the response.
func (h *NegotiationHandler) Commit(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req negotiationSelectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	show, sched, activated, err := h.Shows.CommitVenueTerms(ctx, repository.VenueTerms{
		ShowID:           showID,
		OwnerID:          uid,
		TicketPriceCents: req.TicketPriceCents,
		VenuePercentage:  req.VenuePercentage,
	})
	if err != nil {
		switch err {
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrNegotiationClosed:
			return c.JSON(http.StatusConflict, echo.Map{"error": "negotiation already closed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
		}
	}

	var venuePtr *model.Venue
	if venue, verr := h.Venues.GetForShow(ctx, showID); verr != nil {
		log.Error().Err(verr).Uint64("show_id", showID).Msg("load venue for fan-out failed")
	} else {
		venuePtr = &venue
		go h.fanOutConfirmations(show, venue, sched)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show":      showDetail(show, venuePtr, nil),
		"schedule":  sched,
		"activated": activated,
	})
}

// fanOutConfirmations publishes one show.confirmed message per party:
// every individual performer gets their guarantee base, the promoter
// gets the terms without one. Failures are logged and dropped; the
// committed terms stand regardless.
func (h *NegotiationHandler) fanOutConfirmations(show *model.Show, venue model.Venue, sched *guarantee.Schedule) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	confirmedAt := time.Now().UTC().Format(time.RFC3339)
	base := queue.ShowConfirmedEvent{
		ShowID:      show.ID,
		VenueName:   venue.Name,
		VenueCity:   venue.City,
		ConfirmedAt: confirmedAt,
	}
	if show.ConfirmedDate != nil {
		base.ConfirmedDate = *show.ConfirmedDate
	}
	if show.ConfirmedTime != nil {
		base.ConfirmedTime = *show.ConfirmedTime
	}
	if show.TicketPriceCents != nil {
		base.TicketPriceCents = *show.TicketPriceCents
	}
	if show.VenuePercentage != nil {
		base.VenuePercentage = *show.VenuePercentage
	}

	for _, artistID := range show.PayeeArtistIDs() {
		artist, err := h.Artists.GetByID(ctx, artistID)
		if err != nil {
			log.Error().Err(err).Uint64("artist_id", artistID).Msg("resolve artist for fan-out failed")
			continue
		}
		ev := base
		ev.RecipientID = artist.UserID
		ev.RecipientRole = model.RoleArtist
		if sched != nil {
			amount := sched.PerArtistCents
			ev.GuaranteeCents = &amount
		}
		if err := queuepublisher.PublishShowConfirmed(ctx, ev); err != nil {
			log.Error().Err(err).Uint64("recipient_id", ev.RecipientID).Msg("publish confirmation failed")
		}
	}

	ev := base
	ev.RecipientID = show.PromoterID
	ev.RecipientRole = model.RolePromoter
	if err := queuepublisher.PublishShowConfirmed(ctx, ev); err != nil {
		log.Error().Err(err).Uint64("recipient_id", ev.RecipientID).Msg("publish confirmation failed")
	}
}

func containsInt64(xs []int64, v int64) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
