package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigstage/show-booking/internal/repository"
)

// ConsensusHandler records performer accept/decline decisions.
type ConsensusHandler struct {
	Members *repository.MemberRepo
	Artists *repository.ArtistRepo
}

func NewConsensusHandler(m *repository.MemberRepo, a *repository.ArtistRepo) *ConsensusHandler {
	return &ConsensusHandler{Members: m, Artists: a}
}

type decisionReq struct {
	Decision bool   `json:"decision"`
	BandID   uint64 `json:"band_id"` // set when deciding as a band sub-member
}

// Decide stores the caller's decision for a show, either as a solo
// lineup member or as one member of an invited band. Decisions can be
// flipped while the show is pending; a completed set of accepts
// activates the show in the same transaction.
func (h *ConsensusHandler) Decide(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	artist, err := h.Artists.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no artist profile"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var activated bool
	if req.BandID != 0 {
		activated, err = h.Members.DecideBandMember(ctx, showID, req.BandID, artist.ID, req.Decision)
	} else {
		activated, err = h.Members.DecideArtist(ctx, showID, artist.ID, req.Decision)
	}
	if err != nil {
		switch err {
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not on this lineup"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "show is no longer pending"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"decision":  req.Decision,
		"activated": activated,
	})
}
