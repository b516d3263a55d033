package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigstage/show-booking/internal/guarantee"
	"github.com/gigstage/show-booking/internal/model"
	"github.com/gigstage/show-booking/internal/repository"
)

// ShowHandler serves show creation and the public show detail view.
type ShowHandler struct {
	Shows  *repository.ShowRepo
	Venues *repository.VenueRepo
	Votes  *repository.VoteRepo
}

func NewShowHandler(s *repository.ShowRepo, v *repository.VenueRepo, vt *repository.VoteRepo) *ShowHandler {
	return &ShowHandler{Shows: s, Venues: v, Votes: vt}
}

type lineupEntryReq struct {
	MemberID   uint64  `json:"member_id"`
	MemberType string  `json:"member_type"` // ARTIST | BAND
	Position   *string `json:"position"`
}

type createShowReq struct {
	VenueID       uint64           `json:"venue_id"`
	PreferredDate string           `json:"preferred_date"` // YYYY-MM-DD
	PreferredTime string           `json:"preferred_time"` // HH:MM
	Lineup        []lineupEntryReq `json:"lineup"`
}

// Create books a new pending show: the promoter names a venue, a
// preferred slot, and the lineup. Band entries are expanded into
// per-member consensus rows so activation can track every individual.
func (h *ShowHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VenueID == 0 || req.PreferredDate == "" || req.PreferredTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id, preferred_date and preferred_time required"})
	}
	if len(req.Lineup) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lineup required"})
	}
	if _, err := time.Parse("2006-01-02", req.PreferredDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "preferred_date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", req.PreferredTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "preferred_time must be HH:MM"})
	}

	type lineupKey struct {
		id  uint64
		typ string
	}
	lineup := make([]repository.NewShowMember, 0, len(req.Lineup))
	seen := make(map[lineupKey]bool, len(req.Lineup))
	for _, e := range req.Lineup {
		mt := strings.ToUpper(strings.TrimSpace(e.MemberType))
		if mt != model.MemberTypeArtist && mt != model.MemberTypeBand {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_type must be ARTIST or BAND"})
		}
		if e.MemberID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id required"})
		}
		key := lineupKey{e.MemberID, mt}
		if seen[key] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate lineup entry"})
		}
		seen[key] = true
		lineup = append(lineup, repository.NewShowMember{MemberID: e.MemberID, MemberType: mt, Position: e.Position})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Venues.GetByID(ctx, req.VenueID); err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	show, err := h.Shows.Create(ctx, uid, req.VenueID, req.PreferredDate, req.PreferredTime, lineup)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, showDetail(show, nil, nil))
}

// Get serves the public show detail view, including each member's
// effective decision, the commercial terms when set, and the guarantee
// schedule (null until the venue has committed terms).
func (h *ShowHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	show, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	venue, err := h.Venues.GetForShow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	votes, err := h.Votes.Info(ctx, id, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, showDetail(show, &venue, &votes))
}

// showDetail builds the wire form of a show. The guarantee block is
// null whenever the economics are not yet determined.
func showDetail(s *model.Show, venue *model.Venue, votes *repository.VoteInfo) echo.Map {
	members := make([]echo.Map, 0, len(s.Members))
	for _, m := range s.Members {
		entry := echo.Map{
			"member_id":   m.MemberID,
			"member_type": m.MemberType,
			"position":    m.Position,
			"decision":    m.EffectiveDecision(),
		}
		if m.MemberType == model.MemberTypeBand {
			consensus := make([]echo.Map, 0, len(m.Consensus))
			for _, sc := range m.Consensus {
				consensus = append(consensus, echo.Map{
					"artist_id": sc.ArtistID,
					"decision":  sc.Decision,
				})
			}
			entry["consensus"] = consensus
		}
		members = append(members, entry)
	}

	out := echo.Map{
		"id":                 s.ID,
		"promoter_id":        s.PromoterID,
		"venue_id":           s.VenueID,
		"status":             s.Status,
		"venue_decision":     s.VenueDecision,
		"preferred_date":     s.PreferredDate,
		"preferred_time":     s.PreferredTime,
		"confirmed_date":     s.ConfirmedDate,
		"confirmed_time":     s.ConfirmedTime,
		"ticket_price_cents": s.TicketPriceCents,
		"venue_percentage":   s.VenuePercentage,
		"members":            members,
		"guarantees":         guaranteeBlock(s, venue),
	}
	if venue != nil {
		out["venue"] = echo.Map{
			"id":       venue.ID,
			"name":     venue.Name,
			"city":     venue.City,
			"capacity": venue.Capacity,
		}
	}
	if votes != nil {
		out["votes"] = votes
	}
	return out
}

// guaranteeBlock renders the settlement schedule. Stored per-artist
// amounts are authoritative and render even when the pool split cannot
// be recomputed; with no stored rows and incomplete terms the block is
// nil.
func guaranteeBlock(s *model.Show, venue *model.Venue) interface{} {
	var capacity uint32
	if venue != nil {
		capacity = venue.Capacity
	}
	sched, err := guarantee.Compute(guarantee.Inputs{
		Capacity:         capacity,
		TicketPriceCents: s.TicketPriceCents,
		VenuePercentage:  s.VenuePercentage,
	}, s.TotalIndividualArtists())

	if len(s.Guarantees) == 0 {
		if err != nil {
			return nil
		}
		return echo.Map{
			"max_revenue_cents": sched.MaxRevenueCents,
			"venue_share_cents": sched.VenueShareCents,
			"artist_pool_cents": sched.ArtistPoolCents,
			"venue":             sched.Venue,
			"per_artist":        sched.PerArtist,
		}
	}

	payees := make([]echo.Map, 0, len(s.Guarantees))
	for _, g := range s.Guarantees {
		payees = append(payees, echo.Map{
			"payee_artist_id": g.PayeeArtistID,
			"tiers":           guarantee.TiersFromStored(g.AmountCents),
		})
	}
	out := echo.Map{
		"per_artist": guarantee.TiersFromStored(s.Guarantees[0].AmountCents),
		"payees":     payees,
	}
	if err == nil {
		out["max_revenue_cents"] = sched.MaxRevenueCents
		out["venue_share_cents"] = sched.VenueShareCents
		out["artist_pool_cents"] = sched.ArtistPoolCents
		out["venue"] = sched.Venue
	}
	return out
}
