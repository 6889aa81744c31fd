package metrics

import "github.com/tokito/genka-kanri/internal/model"

// Completion counts finished and total subtasks across processes.
type Completion struct {
	Done    int   `json:"done"`
	Total   int   `json:"total"`
	Percent int64 `json:"percent"`
}

func ProcessCompletion(processes []model.ProjectProcess) Completion {
	var c Completion
	for _, process := range processes {
		pc := SectionCompletion(process.Sections)
		c.Done += pc.Done
		c.Total += pc.Total
	}
	c.Percent = Percent(int64(c.Done), int64(c.Total))
	return c
}

func SectionCompletion(sections []model.ProjectSection) Completion {
	var c Completion
	for _, section := range sections {
		for _, subtask := range section.Subtasks {
			c.Total++
			if subtask.Done {
				c.Done++
			}
		}
	}
	c.Percent = Percent(int64(c.Done), int64(c.Total))
	return c
}

// Summary aggregates stats over a set of projects for the dashboard.
type Summary struct {
	ProjectCount      int     `json:"projectCount"`
	EffectiveContract int64   `json:"effectiveContract"`
	TotalCost         int64   `json:"totalCost"`
	Profit            int64   `json:"profit"`
	ProfitRate        int64   `json:"profitRate"`
	Billed            int64   `json:"billed"`
	Paid              int64   `json:"paid"`
	Outstanding       int64   `json:"outstanding"`
	LaborDays         float64 `json:"laborDays"`
	VehicleDays       float64 `json:"vehicleDays"`
	ProfitPerLabor    int64   `json:"profitPerLabor"`
}

func Summarize(projects []model.Project, costs []model.Cost, quantities []model.Quantity) Summary {
	var s Summary
	for _, p := range projects {
		st := ProjectStats(p, costs, quantities)
		s.ProjectCount++
		s.EffectiveContract += st.EffectiveContract
		s.TotalCost += st.TotalCost
		s.Profit += st.Profit
		s.Billed += p.BilledAmount
		s.Paid += p.PaidAmount
		s.LaborDays += st.LaborDays
		s.VehicleDays += st.VehicleDays
	}
	s.Outstanding = s.Billed - s.Paid
	s.ProfitRate = Percent(s.Profit, s.EffectiveContract)
	s.ProfitPerLabor = Divide(s.Profit, s.LaborDays)
	return s
}
