package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokito/genka-kanri/internal/model"
)

func sampleDataset() model.Dataset {
	deletedAt := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	return model.Dataset{
		Projects: []model.Project{
			{
				ID: "p1", ManagementNumber: "K-0001", Name: `○○邸 "新築" 工事`, Client: "山田太郎",
				Category: model.CategoryConstruction, OriginalAmount: 15_000_000, Budget: 10_500_000,
				Status: model.ProjectStatusInProgress, StartDate: "2025-01-15", EndDate: "2025-06-30", Progress: 45,
				Mode: model.ProjectModeNormal,
				Changes: []model.ChangeOrder{{ID: "ch1", Type: model.ChangeTypeIncrease, Amount: 500_000}},
			},
			{
				ID: "p2", ManagementNumber: "K-0002", Name: "△△ビル 外壁改修", Client: "株式会社ABC",
				Category: model.CategoryConstruction, OriginalAmount: 8_500_000, Budget: 0,
				Status: model.ProjectStatusOrdered, Mode: model.ProjectModeSubcontract,
				MarginRate: 12, SubcontractAmount: 7_480_000,
				Archived: true, ArchiveYear: "2025", Deleted: true, DeletedAt: &deletedAt,
			},
		},
		Costs: []model.Cost{
			{ID: "c1", ProjectID: "p1", Category: model.CostCategoryMaterial, Amount: 1_200_000},
			{ID: "c2", ProjectID: "p1", Category: model.CostCategoryOutsource, Amount: 2_430_000},
		},
		Quantities: []model.Quantity{
			{ID: "q1", ProjectID: "p1", Category: model.QuantityCategoryLabor, Quantity: 70},
			{ID: "q2", ProjectID: "p1", Category: model.QuantityCategoryVehicle, Quantity: 15, VehicleID: "gone", Description: "2tトラック"},
		},
		Vehicles: []model.Vehicle{{ID: "v1", Registration: "堺 800 さ 1299"}},
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	ds := sampleDataset()
	portfolio := Build(ds, ds.Projects, time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, portfolio.Lines))

	raw := buf.String()
	require.True(t, strings.HasPrefix(raw, utf8BOM))
	assert.Contains(t, raw, `"○○邸 ""新築"" 工事"`)

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(raw, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])

	col := func(name string) int {
		for i, h := range CSVHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("unknown column %s", name)
		return -1
	}

	for i, line := range portfolio.Lines {
		record := records[i+1]
		require.Len(t, record, len(CSVHeader))
		assert.Equal(t, line.Project.ManagementNumber, record[col("管理番号")])
		assert.Equal(t, line.Project.Name, record[col("案件名")])
	}

	normal := records[1]
	assert.Equal(t, "15500000", normal[col("増減後受注額")])
	assert.Equal(t, "3630000", normal[col("原価合計")])
	assert.Equal(t, "77%", normal[col("利益率")])
	assert.Equal(t, Placeholder, normal[col("マージン率")])
	assert.Equal(t, "221429", normal[col("売上/人工")])
	assert.Equal(t, "169571", normal[col("粗利/人工")])
	assert.Equal(t, "45%", normal[col("進捗")])
	assert.Equal(t, "施工中", normal[col("ステータス")])
	assert.Equal(t, "工事", normal[col("区分")])
	assert.Equal(t, "自社施工", normal[col("施工形態")])
	assert.Equal(t, Placeholder, normal[col("削除日")])

	subcontract := records[2]
	assert.Equal(t, "一括外注", subcontract[col("施工形態")])
	assert.Equal(t, "12%", subcontract[col("マージン率")])
	assert.Equal(t, "7480000", subcontract[col("原価合計")])
	assert.Equal(t, "12%", subcontract[col("利益率")])
	assert.Equal(t, Placeholder, subcontract[col("売上/人工")])
	assert.Equal(t, Placeholder, subcontract[col("開始日")])
	assert.Equal(t, "2025", subcontract[col("アーカイブ年度")])
	assert.Equal(t, "2026/3/5", subcontract[col("削除日")])
}

func TestBuild(t *testing.T) {
	ds := sampleDataset()
	portfolio := Build(ds, ds.Projects[:1], time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, portfolio.Lines, 1)
	assert.Equal(t, 1, portfolio.Summary.ProjectCount)
	assert.Equal(t, int64(11_870_000), portfolio.Summary.Profit)
	assert.Len(t, portfolio.Lines[0].Stats.Costs, 2)
	assert.Equal(t, ds.Vehicles, portfolio.Vehicles)
}

func TestQuantityLabel(t *testing.T) {
	vehicles := []model.Vehicle{{ID: "v1", Registration: "堺 800 さ 1299"}}

	assert.Equal(t, "堺 800 さ 1299", QuantityLabel(model.Quantity{Category: model.QuantityCategoryVehicle, VehicleID: "v1", Description: "旧"}, vehicles))
	assert.Equal(t, "旧", QuantityLabel(model.Quantity{Category: model.QuantityCategoryVehicle, VehicleID: "v9", Description: "旧"}, vehicles))
	assert.Equal(t, "大工", QuantityLabel(model.Quantity{Category: model.QuantityCategoryLabor, Description: "大工"}, vehicles))
}
