package report

import (
	"time"

	"github.com/tokito/genka-kanri/internal/metrics"
	"github.com/tokito/genka-kanri/internal/model"
)

// Line is one project with everything derived from it.
type Line struct {
	Project    model.Project      `json:"project"`
	Stats      metrics.Stats      `json:"stats"`
	Completion metrics.Completion `json:"completion"`
}

type Portfolio struct {
	GeneratedAt time.Time
	Lines       []Line
	Summary     metrics.Summary
	Vehicles    []model.Vehicle
}

func NewLine(p model.Project, costs []model.Cost, quantities []model.Quantity) Line {
	return Line{
		Project:    p,
		Stats:      metrics.ProjectStats(p, costs, quantities),
		Completion: metrics.ProcessCompletion(p.ProjectProcesses),
	}
}

// Build derives a line for every given project against the dataset rows.
func Build(ds model.Dataset, projects []model.Project, now time.Time) Portfolio {
	lines := make([]Line, 0, len(projects))
	for _, p := range projects {
		lines = append(lines, NewLine(p, ds.Costs, ds.Quantities))
	}
	return Portfolio{
		GeneratedAt: now,
		Lines:       lines,
		Summary:     metrics.Summarize(projects, ds.Costs, ds.Quantities),
		Vehicles:    ds.Vehicles,
	}
}

// QuantityLabel shows the vehicle registration when the referenced vehicle
// still exists and the stored description otherwise.
func QuantityLabel(q model.Quantity, vehicles []model.Vehicle) string {
	if q.Category == model.QuantityCategoryVehicle && q.VehicleID != "" {
		for _, v := range vehicles {
			if v.ID == q.VehicleID {
				return v.Registration
			}
		}
	}
	return q.Description
}

func ModeLabel(mode model.ProjectMode) string {
	if mode == model.ProjectModeSubcontract {
		return "一括外注"
	}
	return "自社施工"
}
