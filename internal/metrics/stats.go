package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/tokito/genka-kanri/internal/model"
)

// Stats holds the values derived from a project and its scoped rows.
type Stats struct {
	EffectiveContract int64            `json:"effectiveContract"`
	TotalCost         int64            `json:"totalCost"`
	LaborDays         float64          `json:"laborDays"`
	VehicleDays       float64          `json:"vehicleDays"`
	Profit            int64            `json:"profit"`
	ProfitRate        int64            `json:"profitRate"`
	RevenuePerLabor   int64            `json:"revenuePerLabor"`
	ProfitPerLabor    int64            `json:"profitPerLabor"`
	BudgetUsed        int64            `json:"budgetUsed"`
	SubcontractAmount *int64           `json:"subcontractAmount,omitempty"`
	Costs             []model.Cost     `json:"costs"`
	Quantities        []model.Quantity `json:"quantities"`
}

// EffectiveContract is the original amount adjusted by every change order.
func EffectiveContract(p model.Project) int64 {
	total := p.OriginalAmount
	for _, change := range p.Changes {
		total += change.Type.Sign() * change.Amount
	}
	return total
}

// ProjectStats derives profit and productivity figures for p. Costs and
// quantities belonging to other projects are ignored.
func ProjectStats(p model.Project, costs []model.Cost, quantities []model.Quantity) Stats {
	effective := EffectiveContract(p)

	scopedCosts := make([]model.Cost, 0)
	for _, cost := range costs {
		if cost.ProjectID == p.ID {
			scopedCosts = append(scopedCosts, cost)
		}
	}
	scopedQuantities := make([]model.Quantity, 0)
	for _, quantity := range quantities {
		if quantity.ProjectID == p.ID {
			scopedQuantities = append(scopedQuantities, quantity)
		}
	}

	directCost := int64(0)
	for _, cost := range scopedCosts {
		directCost += cost.Amount
	}
	laborDays, vehicleDays := 0.0, 0.0
	for _, quantity := range scopedQuantities {
		switch quantity.Category {
		case model.QuantityCategoryLabor:
			laborDays += quantity.Quantity
		case model.QuantityCategoryVehicle:
			vehicleDays += quantity.Quantity
		}
	}

	stats := Stats{
		EffectiveContract: effective,
		LaborDays:         laborDays,
		VehicleDays:       vehicleDays,
		Costs:             scopedCosts,
		Quantities:        scopedQuantities,
	}

	if p.IsSubcontract() {
		subcontract := SubcontractCost(p, effective)
		stats.SubcontractAmount = &subcontract
		stats.TotalCost = subcontract + directCost
		stats.BudgetUsed = 100
	} else {
		stats.TotalCost = directCost
		stats.BudgetUsed = Percent(directCost, p.Budget)
	}

	stats.Profit = effective - stats.TotalCost
	stats.ProfitRate = Percent(stats.Profit, effective)
	stats.RevenuePerLabor = Divide(effective, laborDays)
	stats.ProfitPerLabor = Divide(stats.Profit, laborDays)
	return stats
}

// SubcontractCost is the vendor share of a subcontracted project. A positive
// margin rate always wins over the stored subcontract amount.
func SubcontractCost(p model.Project, effective int64) int64 {
	if p.MarginRate > 0 {
		share := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(p.MarginRate))
		return roundHalfUp(decimal.NewFromInt(effective).Mul(share).Div(decimal.NewFromInt(100)))
	}
	return p.SubcontractAmount
}

// Percent returns round(100*a/b), or 0 when b is 0.
func Percent(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return roundHalfUp(decimal.NewFromInt(a).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(b)))
}

// Divide returns round(a/b), or 0 when b is 0.
func Divide(a int64, b float64) int64 {
	if b == 0 {
		return 0
	}
	return roundHalfUp(decimal.NewFromInt(a).Div(decimal.NewFromFloat(b)))
}

func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(decimal.New(5, -1)).Floor().IntPart()
}
