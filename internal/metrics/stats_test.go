package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokito/genka-kanri/internal/model"
)

func normalProject() model.Project {
	return model.Project{
		ID:             "p1",
		OriginalAmount: 15_000_000,
		Budget:         10_500_000,
		Mode:           model.ProjectModeNormal,
		Changes: []model.ChangeOrder{
			{ID: "ch1", Type: model.ChangeTypeIncrease, Amount: 500_000},
		},
	}
}

func normalCosts() []model.Cost {
	return []model.Cost{
		{ID: "c1", ProjectID: "p1", Category: model.CostCategoryMaterial, Amount: 1_200_000},
		{ID: "c2", ProjectID: "p1", Category: model.CostCategoryMaterial, Amount: 350_000},
		{ID: "c3", ProjectID: "p1", Category: model.CostCategoryOutsource, Amount: 1_800_000},
		{ID: "c4", ProjectID: "p1", Category: model.CostCategoryEquipment, Amount: 280_000},
		{ID: "c5", ProjectID: "p3", Category: model.CostCategoryOther, Amount: 85_000},
	}
}

func normalQuantities() []model.Quantity {
	return []model.Quantity{
		{ID: "q1", ProjectID: "p1", Category: model.QuantityCategoryLabor, Quantity: 50},
		{ID: "q2", ProjectID: "p1", Category: model.QuantityCategoryLabor, Quantity: 20},
		{ID: "q3", ProjectID: "p1", Category: model.QuantityCategoryVehicle, Quantity: 12},
		{ID: "q4", ProjectID: "p1", Category: model.QuantityCategoryVehicle, Quantity: 3},
		{ID: "q5", ProjectID: "p3", Category: model.QuantityCategoryLabor, Quantity: 60},
	}
}

func TestEffectiveContract(t *testing.T) {
	p := model.Project{
		OriginalAmount: 1_000_000,
		Changes: []model.ChangeOrder{
			{Type: model.ChangeTypeIncrease, Amount: 300_000},
			{Type: model.ChangeTypeDecrease, Amount: 120_000},
			{Type: model.ChangeTypeIncrease, Amount: 5_000},
		},
	}
	assert.Equal(t, int64(1_185_000), EffectiveContract(p))

	reversed := p
	reversed.Changes = []model.ChangeOrder{p.Changes[2], p.Changes[1], p.Changes[0]}
	assert.Equal(t, EffectiveContract(p), EffectiveContract(reversed))

	assert.Equal(t, int64(42), EffectiveContract(model.Project{OriginalAmount: 42}))
}

func TestProjectStats_NormalMode(t *testing.T) {
	st := ProjectStats(normalProject(), normalCosts(), normalQuantities())

	assert.Equal(t, int64(15_500_000), st.EffectiveContract)
	assert.Equal(t, int64(3_630_000), st.TotalCost)
	assert.Equal(t, int64(11_870_000), st.Profit)
	assert.Equal(t, int64(77), st.ProfitRate)
	assert.Equal(t, 70.0, st.LaborDays)
	assert.Equal(t, 15.0, st.VehicleDays)
	assert.Equal(t, int64(221_429), st.RevenuePerLabor)
	assert.Equal(t, int64(169_571), st.ProfitPerLabor)
	assert.Equal(t, int64(35), st.BudgetUsed)
	assert.Nil(t, st.SubcontractAmount)
	assert.Len(t, st.Costs, 4)
	assert.Len(t, st.Quantities, 4)
}

func TestProjectStats_SubcontractMode(t *testing.T) {
	p := model.Project{
		ID:                "p2",
		OriginalAmount:    8_500_000,
		Mode:              model.ProjectModeSubcontract,
		MarginRate:        12,
		SubcontractAmount: 7_480_000,
	}
	st := ProjectStats(p, normalCosts(), normalQuantities())

	require.NotNil(t, st.SubcontractAmount)
	assert.Equal(t, int64(7_480_000), *st.SubcontractAmount)
	assert.Equal(t, int64(7_480_000), st.TotalCost)
	assert.Equal(t, int64(1_020_000), st.Profit)
	assert.Equal(t, int64(12), st.ProfitRate)
	assert.Equal(t, int64(100), st.BudgetUsed)
}

func TestProjectStats_MarginRateWinsOverStoredAmount(t *testing.T) {
	p := model.Project{
		ID:                "p2",
		OriginalAmount:    8_500_000,
		Mode:              model.ProjectModeSubcontract,
		MarginRate:        10,
		SubcontractAmount: 999_999_999,
	}
	st := ProjectStats(p, nil, nil)

	require.NotNil(t, st.SubcontractAmount)
	assert.Equal(t, int64(7_650_000), *st.SubcontractAmount)
}

func TestProjectStats_SubcontractUsesStoredAmountWithoutMargin(t *testing.T) {
	p := model.Project{
		ID:                "p2",
		OriginalAmount:    1_000_000,
		Mode:              model.ProjectModeSubcontract,
		SubcontractAmount: 900_000,
	}
	costs := []model.Cost{{ProjectID: "p2", Amount: 20_000}}
	quantities := []model.Quantity{{ProjectID: "p2", Category: model.QuantityCategoryLabor, Quantity: 2}}

	st := ProjectStats(p, costs, quantities)

	assert.Equal(t, int64(920_000), st.TotalCost)
	assert.Equal(t, int64(80_000), st.Profit)
	assert.Equal(t, 2.0, st.LaborDays)
	assert.Equal(t, int64(40_000), st.ProfitPerLabor)
	assert.Equal(t, int64(500_000), st.RevenuePerLabor)
}

func TestProjectStats_ZeroDenominators(t *testing.T) {
	tests := []struct {
		name    string
		project model.Project
	}{
		{name: "zero contract", project: model.Project{ID: "z"}},
		{name: "zero budget", project: model.Project{ID: "z", OriginalAmount: 100}},
		{name: "negative contract", project: model.Project{ID: "z", Changes: []model.ChangeOrder{{Type: model.ChangeTypeDecrease, Amount: 10}}}},
		{name: "subcontract zero", project: model.Project{ID: "z", Mode: model.ProjectModeSubcontract, MarginRate: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs := []model.Cost{{ProjectID: "z", Amount: 50}}
			assert.NotPanics(t, func() {
				st := ProjectStats(tt.project, costs, nil)
				assert.Equal(t, int64(0), st.RevenuePerLabor)
				assert.Equal(t, int64(0), st.ProfitPerLabor)
				if tt.project.Budget == 0 && !tt.project.IsSubcontract() {
					assert.Equal(t, int64(0), st.BudgetUsed)
				}
				if st.EffectiveContract == 0 {
					assert.Equal(t, int64(0), st.ProfitRate)
				}
			})
		})
	}
}

func TestProjectStats_DoesNotMutateInputs(t *testing.T) {
	p := normalProject()
	costs := normalCosts()
	quantities := normalQuantities()

	first := ProjectStats(p, costs, quantities)
	second := ProjectStats(p, costs, quantities)

	assert.Equal(t, first, second)
	assert.Equal(t, normalProject(), p)
	assert.Equal(t, normalCosts(), costs)
	assert.Equal(t, normalQuantities(), quantities)
}

func TestRoundingIsHalfUp(t *testing.T) {
	assert.Equal(t, int64(3), Divide(5, 2))
	assert.Equal(t, int64(-2), Divide(-5, 2))
	assert.Equal(t, int64(50), Percent(1, 2))
	assert.Equal(t, int64(33), Percent(1, 3))
	assert.Equal(t, int64(67), Percent(2, 3))
	assert.Equal(t, int64(0), Percent(5, 0))
	assert.Equal(t, int64(0), Divide(5, 0))
}

func TestProcessCompletion(t *testing.T) {
	assert.Equal(t, Completion{}, ProcessCompletion(nil))

	processes := []model.ProjectProcess{
		{Sections: []model.ProjectSection{
			{Subtasks: []model.ProjectSubtask{{Done: true}, {Done: false}, {Done: true}}},
		}},
		{Sections: []model.ProjectSection{
			{Subtasks: nil},
			{Subtasks: []model.ProjectSubtask{{Done: false}}},
		}},
	}
	c := ProcessCompletion(processes)
	assert.Equal(t, 2, c.Done)
	assert.Equal(t, 4, c.Total)
	assert.Equal(t, int64(50), c.Percent)

	allDone := []model.ProjectProcess{{Sections: []model.ProjectSection{
		{Subtasks: []model.ProjectSubtask{{Done: true}, {Done: true}}},
	}}}
	assert.Equal(t, int64(100), ProcessCompletion(allDone).Percent)
}

func TestSummarize(t *testing.T) {
	sub := model.Project{
		ID:             "p2",
		OriginalAmount: 8_500_000,
		Mode:           model.ProjectModeSubcontract,
		MarginRate:     12,
		BilledAmount:   1_000_000,
		PaidAmount:     400_000,
	}
	s := Summarize([]model.Project{normalProject(), sub}, normalCosts(), normalQuantities())

	assert.Equal(t, 2, s.ProjectCount)
	assert.Equal(t, int64(24_000_000), s.EffectiveContract)
	assert.Equal(t, int64(11_110_000), s.TotalCost)
	assert.Equal(t, int64(12_890_000), s.Profit)
	assert.Equal(t, int64(54), s.ProfitRate)
	assert.Equal(t, int64(600_000), s.Outstanding)
	assert.Equal(t, 70.0, s.LaborDays)
}
