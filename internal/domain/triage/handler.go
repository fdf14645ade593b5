package triage

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nethra/triage/internal/platform/auth"
	"github.com/nethra/triage/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires triage endpoints. Classification is open to the
// kiosk; feedback review is staff-only.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/triage", h.Classify)
	api.POST("/feedback", h.SubmitFeedback)

	staff := api.Group("", auth.RequireRole("admin", "operator"))
	staff.GET("/feedback", h.ListFeedback)
}

func (h *Handler) Classify(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Triage(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmptyComplaint) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

type feedbackRequest struct {
	Token          string `json:"token"`
	SuggestedLevel int    `json:"suggested_level"`
	Note           string `json:"note"`
}

func (h *Handler) SubmitFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.svc.RecordFeedback(c.Request().Context(), req.Token, req.SuggestedLevel, req.Note)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) ListFeedback(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListFeedback(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
