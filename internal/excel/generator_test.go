package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/report"
)

func TestGenerator_Generate(t *testing.T) {
	projects := []model.Project{
		{ID: "p1", ManagementNumber: "K-0001", Name: "管路更生工事", Client: "市", Category: model.CategoryConstruction, OriginalAmount: 1_000_000, Budget: 700_000, Status: model.ProjectStatusOrdered},
		{ID: "p2", ManagementNumber: "K-0001", Name: "管路更生工事", Client: "市", Category: model.CategoryConstruction, OriginalAmount: 500_000},
	}
	ds := model.Dataset{
		Projects: projects,
		Costs:    []model.Cost{{ID: "c1", ProjectID: "p1", Category: model.CostCategoryMaterial, Description: "更生材", Amount: 300_000}},
		Quantities: []model.Quantity{
			{ID: "q1", ProjectID: "p1", Category: model.QuantityCategoryVehicle, Description: "旧車両", Quantity: 2, VehicleID: "v1"},
		},
		Vehicles: []model.Vehicle{{ID: "v1", Registration: "堺 800 さ 1299"}},
	}

	content, err := NewGenerator().Generate(report.Build(ds, projects, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	sheets := file.GetSheetList()
	require.Len(t, sheets, 3)
	assert.Equal(t, summarySheet, sheets[0])
	assert.Equal(t, "K-0001 管路更生工事", sheets[1])
	assert.Equal(t, "K-0001 管路更生工事-2", sheets[2])

	count, err := file.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	profit, err := file.GetCellValue(summarySheet, "J9")
	require.NoError(t, err)
	assert.Equal(t, "700000", profit)

	rows, err := file.GetRows(sheets[1])
	require.NoError(t, err)
	var joined []string
	for _, row := range rows {
		joined = append(joined, strings.Join(row, "|"))
	}
	assert.Contains(t, joined, "|材料費|更生材||300000")
	assert.Contains(t, joined, "|車両|堺 800 さ 1299|2|台日")
}

func TestBuildSheetName(t *testing.T) {
	used := map[string]struct{}{}
	long := model.Project{ManagementNumber: "K-0012", Name: strings.Repeat("下水管耐震化", 10)}

	name := buildSheetName(long, used)
	assert.Equal(t, maxSheetRunes, utf8.RuneCountInString(name))
	used[name] = struct{}{}

	second := buildSheetName(long, used)
	assert.True(t, strings.HasSuffix(second, "-2"))
	assert.LessOrEqual(t, utf8.RuneCountInString(second), maxSheetRunes)

	assert.Equal(t, "G-0001 調査-北区-", buildSheetName(model.Project{ManagementNumber: "G-0001", Name: "調査/北区?"}, used))
	assert.Equal(t, "p9", buildSheetName(model.Project{ID: "p9"}, used))
}
