package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigstage/show-booking/internal/model"
	"github.com/gigstage/show-booking/internal/repository"
)

// BacklineHandler serves opening-slot applications and their votes.
type BacklineHandler struct {
	Backlines *repository.BacklineRepo
	Shows     *repository.ShowRepo
	Artists   *repository.ArtistRepo
}

func NewBacklineHandler(b *repository.BacklineRepo, s *repository.ShowRepo, a *repository.ArtistRepo) *BacklineHandler {
	return &BacklineHandler{Backlines: b, Shows: s, Artists: a}
}

// List returns the applications for a show plus whether the caller can
// still apply with any of their identities. Performers already on the
// lineup, directly or through a band, are never eligible.
func (h *BacklineHandler) List(c echo.Context) error {
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

	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	apps, err := h.Backlines.ListByShow(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	eligible, err := h.eligibility(ctx, show, apps, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	wire := make([]echo.Map, 0, len(apps))
	for i := range apps {
		wire = append(wire, applicationWire(&apps[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"applications": wire,
		"can_apply":    eligible,
	})
}

func applicationWire(a *model.BacklineApplication) echo.Map {
	return echo.Map{
		"id":             a.ID,
		"show_id":        a.ShowID,
		"applicant_id":   a.ApplicantID,
		"applicant_type": a.ApplicantType,
		"status":         a.Status,
		"vote_count":     a.VoteCount,
		"created_at":     a.CreatedAt,
	}
}

// eligibility derives whether the user can still apply. Missing artist
// profiles degrade to not eligible rather than erroring.
func (h *BacklineHandler) eligibility(ctx context.Context, show *model.Show, apps []model.BacklineApplication, userID uint64) (bool, error) {
	artist, err := h.Artists.GetByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	if show.HasPerformer(artist.ID) {
		return false, nil
	}

	type applicantKey struct {
		id  uint64
		typ string
	}
	applied := make(map[applicantKey]bool, len(apps))
	for _, a := range apps {
		applied[applicantKey{a.ApplicantID, a.ApplicantType}] = true
	}

	if !applied[applicantKey{artist.ID, model.MemberTypeArtist}] {
		return true, nil
	}
	bands, err := h.Artists.BandsForArtist(ctx, artist.ID)
	if err != nil {
		return false, err
	}
	for _, b := range bands {
		if !applied[applicantKey{b.ID, model.MemberTypeBand}] {
			return true, nil
		}
	}
	return false, nil
}

type applyReq struct {
	ApplicantType string `json:"applicant_type"` // ARTIST | BAND
	BandID        uint64 `json:"band_id"`        // required for BAND
}

// Apply submits an opening-slot application as the caller's solo
// identity or as one of their bands. A second application by the same
// identity for the same show is a conflict.
func (h *BacklineHandler) Apply(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req applyReq
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

	applicantID := artist.ID
	applicantType := strings.ToUpper(strings.TrimSpace(req.ApplicantType))
	if applicantType == "" {
		applicantType = model.MemberTypeArtist
	}
	switch applicantType {
	case model.MemberTypeArtist:
	case model.MemberTypeBand:
		if req.BandID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "band_id required"})
		}
		bands, err := h.Artists.BandsForArtist(ctx, artist.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		member := false
		for _, b := range bands {
			if b.ID == req.BandID {
				member = true
				break
			}
		}
		if !member {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a member of this band"})
		}
		applicantID = req.BandID
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "applicant_type must be ARTIST or BAND"})
	}

	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if show.HasPerformer(artist.ID) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already performing on this show"})
	}

	app, err := h.Backlines.Apply(ctx, showID, applicantID, applicantType)
	if err != nil {
		switch err {
		case repository.ErrAlreadyApplied:
			return c.JSON(http.StatusConflict, echo.Map{"error": "already applied"})
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply failed"})
		}
	}
	return c.JSON(http.StatusCreated, applicationWire(app))
}

// Vote records the caller's vote for an application. Repeat votes
// report added=false, never an error.
func (h *BacklineHandler) Vote(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	added, err := h.Backlines.Vote(ctx, appID, uid)
	if err != nil {
		if err == repository.ErrApplicationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vote failed"})
	}

	app, err := h.Backlines.GetByID(ctx, appID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{
		"added":       added,
		"application": applicationWire(app),
	})
}
