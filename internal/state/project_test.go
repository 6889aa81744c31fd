package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/seed"
)

func baseDataset() model.Dataset {
	return model.Dataset{
		Projects:       []model.Project{},
		Costs:          []model.Cost{},
		Quantities:     []model.Quantity{},
		Vehicles:       seed.Vehicles(),
		ProcessMasters: seed.ProcessMasters(),
		BidSchedules:   []model.BidSchedule{},
	}
}

func mustCreate(t *testing.T, ds model.Dataset, in ProjectInput) (model.Dataset, model.Project) {
	t.Helper()
	ds, p, err := CreateProject(ds, in)
	require.NoError(t, err)
	return ds, p
}

func TestCreateProject_NormalDefaults(t *testing.T) {
	ds, p := mustCreate(t, baseDataset(), ProjectInput{Name: " 下水管更生 ", Client: "市", Category: "工事", Amount: 15_000_001})

	assert.Equal(t, "下水管更生", p.Name)
	assert.Equal(t, model.CategoryConstruction, p.Category)
	assert.Equal(t, "K-0001", p.ManagementNumber)
	assert.Equal(t, int64(10_500_001), p.Budget)
	assert.Equal(t, int64(15_000_001), p.ContractAmount)
	assert.Equal(t, model.ProjectStatusOrdered, p.Status)
	assert.Equal(t, model.ProjectModeNormal, p.Mode)
	assert.Zero(t, p.SubcontractAmount)
	assert.NotNil(t, p.Payments)
	require.Len(t, ds.Projects, 1)

	ds, second := mustCreate(t, ds, ProjectInput{Name: "次", Client: "市", Category: model.CategoryConstruction, Amount: 100, Budget: 80})
	assert.Equal(t, "K-0002", second.ManagementNumber)
	assert.Equal(t, int64(80), second.Budget)

	_, service := mustCreate(t, ds, ProjectInput{Name: "調査", Client: "市", Category: model.CategoryService, Amount: 100})
	assert.Equal(t, "G-0001", service.ManagementNumber)
}

func TestCreateProject_SubcontractDefaults(t *testing.T) {
	_, p := mustCreate(t, baseDataset(), ProjectInput{
		Name: "外壁改修", Client: "ABC", Amount: 8_500_000,
		Mode: model.ProjectModeSubcontract, MarginRate: 12, Budget: 999,
	})
	assert.Zero(t, p.Budget)
	assert.Equal(t, int64(7_480_000), p.SubcontractAmount)

	_, explicit := mustCreate(t, baseDataset(), ProjectInput{
		Name: "外壁改修", Client: "ABC", Amount: 8_500_000,
		Mode: model.ProjectModeSubcontract, SubcontractAmount: 8_000_000,
	})
	assert.Equal(t, int64(8_000_000), explicit.SubcontractAmount)
}

func TestCreateProject_Validation(t *testing.T) {
	ds := baseDataset()
	cases := map[string]ProjectInput{
		"missing name":   {Client: "c", Amount: 1},
		"missing client": {Name: "n", Amount: 1},
		"zero amount":    {Name: "n", Client: "c"},
		"negative":       {Name: "n", Client: "c", Amount: -5},
		"bad mode":       {Name: "n", Client: "c", Amount: 1, Mode: "lump"},
		"bad status":     {Name: "n", Client: "c", Amount: 1, Status: "lost"},
		"bad margin":     {Name: "n", Client: "c", Amount: 1, MarginRate: 120},
		"bad date":       {Name: "n", Client: "c", Amount: 1, StartDate: "next week"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out, _, err := CreateProject(ds, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, out.Projects)
		})
	}
}

func TestUpdateProject(t *testing.T) {
	ds, p := mustCreate(t, baseDataset(), ProjectInput{Name: "n", Client: "c", Amount: 1000})
	ds, _, err := AddChange(ds, p.ID, ChangeInput{Type: model.ChangeTypeIncrease, Amount: 200})
	require.NoError(t, err)

	name, amount, progress := "renamed", int64(2000), 40
	status := model.ProjectStatusInProgress
	start := "2026-2-30"
	updated, got, err := UpdateProject(ds, p.ID, ProjectPatch{Name: &name, OriginalAmount: &amount, Progress: &progress, Status: &status, StartDate: &start})
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, int64(2200), got.ContractAmount)
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, "2026-02-28", got.StartDate)
	assert.Equal(t, "c", got.Client)
	assert.Equal(t, "n", ds.Projects[0].Name, "input dataset is not modified")
	assert.Equal(t, got, updated.Projects[0])

	bad := 101
	_, _, err = UpdateProject(ds, p.ID, ProjectPatch{Progress: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = UpdateProject(ds, "missing", ProjectPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectLifecycle(t *testing.T) {
	ds, p := mustCreate(t, baseDataset(), ProjectInput{Name: "n", Client: "c", Amount: 1000})
	ds, _, err := AddCost(ds, p.ID, CostInput{Category: model.CostCategoryMaterial, Amount: 10})
	require.NoError(t, err)
	ds, _, err = AddQuantity(ds, p.ID, QuantityInput{Category: model.QuantityCategoryLabor, Description: "作業員", Quantity: 2})
	require.NoError(t, err)

	_, _, err = ArchiveProject(ds, p.ID, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	ds, archived, err := ArchiveProject(ds, p.ID, "2025")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectViewArchived, archived.View())

	_, err = PurgeProject(ds, p.ID)
	assert.ErrorIs(t, err, ErrConflict)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ds, deleted, err := DeleteProject(ds, p.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectViewDeleted, deleted.View())
	require.NotNil(t, deleted.DeletedAt)
	assert.True(t, deleted.DeletedAt.Equal(now))
	assert.Len(t, ds.Costs, 1)

	restored, back, err := RestoreProject(ds, p.ID)
	require.NoError(t, err)
	assert.Nil(t, back.DeletedAt)
	assert.Equal(t, model.ProjectViewArchived, back.View())

	_, active, err := UnarchiveProject(restored, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectViewActive, active.View())
	assert.Empty(t, active.ArchiveYear)

	purged, err := PurgeProject(ds, p.ID)
	require.NoError(t, err)
	assert.Empty(t, purged.Projects)
	assert.Empty(t, purged.Costs)
	assert.Empty(t, purged.Quantities)
	assert.Len(t, ds.Projects, 1)

	_, err = PurgeProject(ds, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"2026-06-31":           "2026-06-30",
		"2024-2-30":            "2024-02-29",
		"2025-02-29":           "2025-02-28",
		"2026-1-5":             "2026-01-05",
		"2026-03-00":           "2026-03-01",
		"2026-04-10T09:00:00Z": "2026-04-10",
	}
	for in, want := range cases {
		got, err := NormalizeDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"2026/04/01", "2026-13-01", "soon"} {
		_, err := NormalizeDate(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}
