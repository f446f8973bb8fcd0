package lab

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
	api.GET("/lab/tests", h.ListTests)
	api.GET("/lab/orders", h.ListOrders)
	api.POST("/lab/orders", h.CreateOrder)
	api.POST("/lab/items/:id/result", h.RecordResult)
}

type createOrderRequest struct {
	USN         string  `json:"usn"`
	TestCode    string  `json:"test_code"`
	EncounterID *string `json:"encounter_id"`
	Notes       string  `json:"notes"`
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in := CreateOrderInput{USN: req.USN, TestCode: req.TestCode, Notes: req.Notes}
	if req.EncounterID != nil && *req.EncounterID != "" {
		id, err := uuid.Parse(*req.EncounterID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid encounter id")
		}
		in.EncounterID = &id
	}
	order, err := h.svc.CreateLabOrder(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, order)
}

type recordResultRequest struct {
	ResultValue string `json:"result_value"`
	ResultNotes string `json:"result_notes"`
}

func (h *Handler) RecordResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	var req recordResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.svc.RecordLabResult(c.Request().Context(), id, req.ResultValue, req.ResultNotes)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.svc.ListLabOrders(c.Request().Context(), c.QueryParam("usn"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListTests(c echo.Context) error {
	tests, err := h.svc.ListLabTests(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, tests)
}
