package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigstage/show-booking/internal/repository"
)

// VoteHandler serves the promotion vote ledger.
type VoteHandler struct {
	Votes *repository.VoteRepo
	Shows *repository.ShowRepo
}

func NewVoteHandler(v *repository.VoteRepo, s *repository.ShowRepo) *VoteHandler {
	return &VoteHandler{Votes: v, Shows: s}
}

// Info returns the vote count for a show plus, when the request
// carries a valid token, whether that user has voted. The route is
// public; anonymous callers simply get user_has_voted=false.
func (h *VoteHandler) Info(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Shows.GetByID(ctx, showID); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var userID *uint64
	if uid, ok := getUserID(c); ok {
		userID = &uid
	}

	info, err := h.Votes.Info(ctx, showID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, info)
}

// Add records the caller's vote. Voting is idempotent: a second vote
// reports added=false and is never an error.
func (h *VoteHandler) Add(c echo.Context) error {
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

	if _, err := h.Shows.GetByID(ctx, showID); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	added, err := h.Votes.AddVote(ctx, showID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vote failed"})
	}

	count, err := h.Votes.VoteCount(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{
		"added":      added,
		"vote_count": count,
	})
}
