package queue

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nethra/triage/internal/domain/pathway"
	"github.com/nethra/triage/internal/platform/auth"
)

type Handler struct {
	engine *Engine
	store  *Store
}

func NewHandler(engine *Engine, store *Store) *Handler {
	return &Handler{engine: engine, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/queue/start", h.StartJourney)
	api.POST("/queue/advance", h.Advance)
	api.GET("/queue/stations/:station", h.StationQueue)
	api.GET("/queue/summary", h.Summary)
	api.GET("/patients/status/:token", h.PatientStatus)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/admin/reset", h.Reset)
}

type startRequest struct {
	Token    string `json:"token"`
	ESILevel int    `json:"esi_level"`
	Category string `json:"category"`
}

func (h *Handler) StartJourney(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ESILevel < 1 || req.ESILevel > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "esi_level must be between 1 and 5")
	}
	cat, err := pathway.ParseCategory(req.Category)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.engine.StartJourney(req.Token, req.ESILevel, cat)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

type advanceRequest struct {
	Token string `json:"token"`
}

func (h *Handler) Advance(c echo.Context) error {
	var req advanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.engine.Advance(req.Token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) StationQueue(c echo.Context) error {
	station, err := pathway.ParseStation(c.Param("station"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entries := h.engine.StationQueue(station)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"station": station,
		"count":   len(entries),
		"entries": entries,
	})
}

func (h *Handler) PatientStatus(c echo.Context) error {
	st, err := h.engine.PatientStatus(c.Param("token"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Summary(c echo.Context) error {
	visits, waiting := h.store.Counts()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"visits":  visits,
		"waiting": waiting,
	})
}

func (h *Handler) Reset(c echo.Context) error {
	h.store.Reset()
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}
