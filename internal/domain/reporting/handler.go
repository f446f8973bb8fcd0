package reporting

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmis/hmis/internal/domain/errs"
)

type Handler struct {
	svc  *Service
	eval *Evaluator
}

func NewHandler(svc *Service, eval *Evaluator) *Handler {
	return &Handler{svc: svc, eval: eval}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/measures", h.ListMeasures)
	api.GET("/reports/measures/:id/evaluate", h.EvaluateMeasure)
	api.GET("/reports/metrics", h.Metrics)
	api.GET("/reports/vitals/latest", h.LatestVitals)
	api.GET("/reports/patients/:usn/summary", h.PatientSummary)

	api.GET("/exports/patients.csv", h.ExportPatients)
	api.GET("/exports/vitals.csv", h.ExportVitals)
	api.GET("/exports/prescriptions.csv", h.ExportPrescriptions)
	api.GET("/exports/summary.csv", h.ExportSummary)
}

func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedMeasures)
}

func (h *Handler) EvaluateMeasure(c echo.Context) error {
	m := FindMeasure(c.Param("id"))
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}
	report, err := h.eval.Evaluate(c.Request().Context(), m)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("query failed: %v", err))
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Metrics(c echo.Context) error {
	m, err := h.svc.Metrics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) LatestVitals(c echo.Context) error {
	latest, err := h.svc.LatestVitalsPerPatient(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, latest)
}

func (h *Handler) PatientSummary(c echo.Context) error {
	summary, err := h.svc.PatientSummary(c.Request().Context(), c.Param("usn"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

// beginCSV sets download headers and returns a writer bound to the response.
func beginCSV(c echo.Context, filename string) *csv.Writer {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return csv.NewWriter(c.Response())
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (h *Handler) ExportPatients(c echo.Context) error {
	rows, err := h.svc.ExportPatients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	w := beginCSV(c, "patients.csv")
	w.Write([]string{"usn", "full_name", "age", "gender", "contact", "address"})
	for _, p := range rows {
		w.Write([]string{p.USN, p.FullName, strconv.Itoa(p.Age), p.Gender, p.Contact, p.Address})
	}
	w.Flush()
	return w.Error()
}

func (h *Handler) ExportVitals(c echo.Context) error {
	rows, err := h.svc.ExportVitals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	w := beginCSV(c, "vitals.csv")
	w.Write([]string{"usn", "full_name", "recorded_at", "weight", "height",
		"blood_pressure_systolic", "blood_pressure_diastolic", "heart_rate",
		"temperature", "recorded_by"})
	for _, v := range rows {
		w.Write([]string{
			v.USN, v.FullName, v.RecordedAt.Format(time.RFC3339),
			ftoa(v.Weight), ftoa(v.Height),
			strconv.Itoa(v.BPSystolic), strconv.Itoa(v.BPDiastolic),
			strconv.Itoa(v.HeartRate), ftoa(v.Temperature), v.RecordedBy,
		})
	}
	w.Flush()
	return w.Error()
}

func (h *Handler) ExportPrescriptions(c echo.Context) error {
	rows, err := h.svc.ExportPrescriptions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	w := beginCSV(c, "prescriptions.csv")
	w.Write([]string{"id", "usn", "full_name", "notes", "prescribed_at"})
	for _, p := range rows {
		w.Write([]string{p.ID, p.USN, p.FullName, p.Notes, p.PrescribedAt.Format(time.RFC3339)})
	}
	w.Flush()
	return w.Error()
}

func (h *Handler) ExportSummary(c echo.Context) error {
	rows, err := h.svc.ExportSummary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	w := beginCSV(c, "summary.csv")
	w.Write([]string{"usn", "full_name", "age", "gender",
		"last_recorded_at", "weight", "height", "bmi",
		"blood_pressure_systolic", "blood_pressure_diastolic", "heart_rate",
		"temperature", "vitals_count", "prescription_count"})
	for _, s := range rows {
		w.Write(summaryCSVRow(s))
	}
	w.Flush()
	return w.Error()
}

// summaryCSVRow flattens one summary row; vitals columns stay empty for
// patients with no readings.
func summaryCSVRow(s *SummaryRow) []string {
	row := []string{s.USN, s.FullName, strconv.Itoa(s.Age), s.Gender}
	if v := s.LatestVitals; v != nil {
		row = append(row,
			v.RecordedAt.Format(time.RFC3339),
			ftoa(v.Weight), ftoa(v.Height), strconv.FormatFloat(v.BMI, 'f', 1, 64),
			strconv.Itoa(v.BPSystolic), strconv.Itoa(v.BPDiastolic),
			strconv.Itoa(v.HeartRate), ftoa(v.Temperature))
	} else {
		row = append(row, "", "", "", "", "", "", "", "")
	}
	return append(row,
		strconv.FormatInt(s.VitalsCount, 10),
		strconv.FormatInt(s.PrescriptionCount, 10))
}
