package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigstage/show-booking/internal/repository"
)

// TicketHandler serves the sales view and the ticketing collaborator's
// order recording path.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(t *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Tickets: t}
}

// Sales returns the live sales picture for an active show. Pending
// shows have no sales data and answer with a conflict.
func (h *TicketHandler) Sales(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	info, err := h.Tickets.SalesForShow(ctx, showID)
	if err != nil {
		switch err {
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case repository.ErrShowNotActive:
			return c.JSON(http.StatusConflict, echo.Map{"error": "show is not active"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tickets_sold":     info.TicketsSold,
		"capacity":         info.Capacity,
		"is_sold_out":      info.IsSoldOut,
		"sales_percentage": info.SalesPercentage(),
	})
}

type orderReq struct {
	Quantity     uint32 `json:"quantity"`
	PaymentToken string `json:"payment_token"`
}

// Order records a confirmed purchase. The payment token is the
// external payment collaborator's confirmation; any non-empty token is
// accepted as proof of payment. The amount always comes from the
// stored ticket price.
func (h *TicketHandler) Order(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}
	if strings.TrimSpace(req.PaymentToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Tickets.RecordOrder(ctx, showID, uid, req.Quantity, strings.TrimSpace(req.PaymentToken))
	if err != nil {
		switch err {
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case repository.ErrShowNotActive:
			return c.JSON(http.StatusConflict, echo.Map{"error": "show is not active"})
		case repository.ErrSoldOut:
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough tickets left"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "show has no ticket price"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order_id":     order.ID,
		"order_ref":    order.OrderRef,
		"show_id":      order.ShowID,
		"quantity":     order.Quantity,
		"amount_cents": order.AmountCents,
	})
}
