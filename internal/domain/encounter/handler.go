package encounter

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmis/hmis/internal/domain/errs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/encounters", h.List)
	api.POST("/encounters", h.Create)
}

type createRequest struct {
	USN         string    `json:"usn"`
	EncounterDT time.Time `json:"encounter_dt"`
	Type        string    `json:"encounter_type"`
	Clinician   string    `json:"clinician"`
	Reason      string    `json:"reason"`
	Notes       string    `json:"notes"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.RecordEncounter(c.Request().Context(), CreateInput{
		USN:         req.USN,
		EncounterDT: req.EncounterDT,
		Type:        req.Type,
		Clinician:   req.Clinician,
		Reason:      req.Reason,
		Notes:       req.Notes,
	})
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.ListEncounters(c.Request().Context(), c.QueryParam("usn"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, list)
}
