package reporting

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MeasureDefinition defines a dashboard measure with its SQL query.
type MeasureDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SQL         string `json:"sql"`
}

// MeasureReport holds the results of evaluating a measure.
type MeasureReport struct {
	MeasureID   string                   `json:"measure_id"`
	MeasureName string                   `json:"measure_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Results     []map[string]interface{} `json:"results"`
}

// PredefinedMeasures is the list of available dashboard measures.
var PredefinedMeasures = []MeasureDefinition{
	{
		ID:          "patient-count",
		Name:        "Patient Count",
		Description: "Total number of registered patients",
		SQL:         `SELECT COUNT(*) AS total FROM patients`,
	},
	{
		ID:          "encounter-volume-by-type",
		Name:        "Encounter Volume by Type",
		Description: "Number of encounters grouped by type",
		SQL:         `SELECT encounter_type, COUNT(*) AS total FROM encounters GROUP BY encounter_type ORDER BY total DESC`,
	},
	{
		ID:          "appointments-by-status",
		Name:        "Appointments by Status",
		Description: "Count of appointments grouped by status",
		SQL:         `SELECT status, COUNT(*) AS total FROM appointments GROUP BY status ORDER BY total DESC`,
	},
	{
		ID:          "lab-orders-by-status",
		Name:        "Lab Orders by Status",
		Description: "Count of lab orders grouped by status",
		SQL:         `SELECT status, COUNT(*) AS total FROM lab_orders GROUP BY status ORDER BY total DESC`,
	},
	{
		ID:          "top-prescribed-medications",
		Name:        "Top Prescribed Medications",
		Description: "Most frequently prescribed catalog entries",
		SQL: `SELECT m.name, COUNT(*) AS total FROM prescription_items pi
			JOIN medications m ON m.id = pi.medication_id
			GROUP BY m.name ORDER BY total DESC LIMIT 10`,
	},
}

// FindMeasure looks up a measure by ID.
func FindMeasure(id string) *MeasureDefinition {
	for i := range PredefinedMeasures {
		if PredefinedMeasures[i].ID == id {
			return &PredefinedMeasures[i]
		}
	}
	return nil
}

// Evaluator executes measure SQL against the store.
type Evaluator struct {
	pool *pgxpool.Pool
}

func NewEvaluator(pool *pgxpool.Pool) *Evaluator {
	return &Evaluator{pool: pool}
}

// Evaluate runs a measure and returns its rows as generic maps.
func (e *Evaluator) Evaluate(ctx context.Context, m *MeasureDefinition) (*MeasureReport, error) {
	rows, err := e.pool.Query(ctx, m.SQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	results := []map[string]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &MeasureReport{
		MeasureID:   m.ID,
		MeasureName: m.Name,
		GeneratedAt: time.Now().UTC(),
		Results:     results,
	}, nil
}
