package prescription

import (
	"net/http"

	"github.com/google/uuid"
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
	api.GET("/prescriptions", h.ListPrescriptions)
	api.POST("/prescriptions", h.CreatePrescription)
	api.GET("/prescriptions/:id/items", h.ListItems)
	api.POST("/prescriptions/:id/items", h.AddItem)
}

type createPrescriptionRequest struct {
	USN   string `json:"usn"`
	Notes string `json:"notes"`
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	var req createPrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.CreatePrescription(c.Request().Context(), req.USN, req.Notes)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	list, err := h.svc.ListPrescriptions(c.Request().Context(), c.QueryParam("usn"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

type addItemRequest struct {
	MedicationName string `json:"medication_name"`
	Dose           string `json:"dose"`
	Route          string `json:"route"`
	Frequency      string `json:"frequency"`
	DurationDays   string `json:"duration_days"`
	Instructions   string `json:"instructions"`
}

func (h *Handler) AddItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.svc.AddPrescriptionItem(c.Request().Context(), AddItemInput{
		PrescriptionID: id,
		MedicationName: req.MedicationName,
		Dose:           req.Dose,
		Route:          req.Route,
		Frequency:      req.Frequency,
		DurationDays:   req.DurationDays,
		Instructions:   req.Instructions,
	})
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) ListItems(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	items, err := h.svc.ListPrescriptionItems(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
