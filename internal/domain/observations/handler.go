package observations

import (
	"net/http"

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
	api.GET("/vitals", h.ListVitals)
	api.POST("/vitals", h.RecordVitals)
	api.GET("/problems", h.ListProblems)
	api.POST("/problems", h.AddProblem)
	api.GET("/allergies", h.ListAllergies)
	api.POST("/allergies", h.AddAllergy)
}

func (h *Handler) RecordVitals(c echo.Context) error {
	var v VitalsRecord
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.RecordVitals(c.Request().Context(), &v)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListVitals(c echo.Context) error {
	ctx := c.Request().Context()
	if usn := c.QueryParam("usn"); usn != "" {
		records, err := h.svc.ListVitals(ctx, usn)
		if err != nil {
			return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
		}
		return c.JSON(http.StatusOK, records)
	}
	records, err := h.svc.ListAllVitals(ctx)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) AddProblem(c echo.Context) error {
	var p Problem
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.AddProblem(c.Request().Context(), &p)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListProblems(c echo.Context) error {
	problems, err := h.svc.ListProblems(c.Request().Context(), c.QueryParam("usn"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, problems)
}

func (h *Handler) AddAllergy(c echo.Context) error {
	var a Allergy
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.AddAllergy(c.Request().Context(), &a)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListAllergies(c echo.Context) error {
	allergies, err := h.svc.ListAllergies(c.Request().Context(), c.QueryParam("usn"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, allergies)
}
