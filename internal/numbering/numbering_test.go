package numbering

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokito/genka-kanri/internal/model"
)

func TestNextManagementNumber(t *testing.T) {
	projects := []model.Project{
		{ManagementNumber: "K-0003"},
		{ManagementNumber: "K-0010"},
		{ManagementNumber: "G-0002"},
		{ManagementNumber: "K-bad"},
		{ManagementNumber: ""},
	}

	tests := []struct {
		category string
		want     string
	}{
		{category: model.CategoryConstruction, want: "K-0011"},
		{category: model.CategoryService, want: "G-0003"},
		{category: "maintenance", want: "X-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, NextManagementNumber(projects, tt.category))
		})
	}

	assert.Equal(t, "K-0001", NextManagementNumber(nil, model.CategoryConstruction))
	assert.Equal(t, "K-10000", NextManagementNumber([]model.Project{{ManagementNumber: "K-9999"}}, model.CategoryConstruction))
}

func TestEnsureManagementNumbers(t *testing.T) {
	projects := []model.Project{
		{ID: "a", Category: model.CategoryConstruction},
		{ID: "b", Category: model.CategoryConstruction, ManagementNumber: "K-0005"},
		{ID: "c", Category: model.CategoryService},
		{ID: "d", Category: "other"},
		{ID: "e", Category: model.CategoryConstruction},
	}

	got := EnsureManagementNumbers(projects)

	require.Len(t, got, 5)
	assert.Equal(t, "K-0006", got[0].ManagementNumber)
	assert.Equal(t, "K-0005", got[1].ManagementNumber)
	assert.Equal(t, "G-0001", got[2].ManagementNumber)
	assert.Equal(t, "X-0001", got[3].ManagementNumber)
	assert.Equal(t, "K-0007", got[4].ManagementNumber)
	assert.Empty(t, projects[0].ManagementNumber, "input must not be mutated")
}

func TestEnsureManagementNumbers_UniqueAndIdempotent(t *testing.T) {
	var projects []model.Project
	categories := []string{model.CategoryConstruction, model.CategoryService, "misc"}
	for i := 0; i < 30; i++ {
		p := model.Project{Category: categories[i%3]}
		if i%4 == 0 {
			p.ManagementNumber = NextManagementNumber(projects, p.Category)
		}
		projects = append(projects, p)
	}

	once := EnsureManagementNumbers(projects)
	twice := EnsureManagementNumbers(once)
	assert.Equal(t, once, twice)

	pattern := regexp.MustCompile(`^[KGX]-\d{4,}$`)
	seen := make(map[string]struct{})
	for _, p := range once {
		assert.Regexp(t, pattern, p.ManagementNumber)
		_, dup := seen[p.ManagementNumber]
		assert.False(t, dup, "duplicate %s", p.ManagementNumber)
		seen[p.ManagementNumber] = struct{}{}
	}
}

func TestEnsureRegisteredProjects(t *testing.T) {
	existing := []model.Project{
		{ID: "p1", Name: "既存案件", Category: model.CategoryConstruction, ManagementNumber: "K-0001"},
	}
	seeds := []model.Project{
		{ID: "seed-1", Name: "既存案件", Category: model.CategoryConstruction},
		{ID: "seed-2", Name: "新規案件", Category: model.CategoryConstruction},
		{ID: "seed-3", Name: "調査業務", Category: model.CategoryService},
	}

	got := EnsureRegisteredProjects(existing, seeds)

	require.Len(t, got, 3)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "新規案件", got[1].Name)
	assert.NotEqual(t, "seed-2", got[1].ID)
	assert.NotEmpty(t, got[1].ID)
	assert.Equal(t, "K-0002", got[1].ManagementNumber)
	assert.Equal(t, "G-0001", got[2].ManagementNumber)

	again := EnsureRegisteredProjects(got, seeds)
	assert.Equal(t, got, again)
}
