package numbering

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/tokito/genka-kanri/internal/model"
)

const fallbackPrefix = "X"

var categoryPrefixes = map[string]string{
	model.CategoryConstruction: "K",
	model.CategoryService:      "G",
}

// Prefix maps a project category to its management number prefix.
func Prefix(category string) string {
	if prefix, ok := categoryPrefixes[category]; ok {
		return prefix
	}
	return fallbackPrefix
}

var numberPattern = regexp.MustCompile(`^([A-Z]+)-(\d+)$`)

// maxSequences returns the highest sequence found per prefix.
func maxSequences(projects []model.Project) map[string]int {
	result := make(map[string]int)
	for _, p := range projects {
		m := numberPattern.FindStringSubmatch(p.ManagementNumber)
		if m == nil {
			continue
		}
		seq, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if seq > result[m[1]] {
			result[m[1]] = seq
		}
	}
	return result
}

func format(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// NextManagementNumber returns the next free code for category. It is not
// atomic: callers holding a stale project list can receive a duplicate.
func NextManagementNumber(projects []model.Project, category string) string {
	prefix := Prefix(category)
	return format(prefix, maxSequences(projects)[prefix]+1)
}

// EnsureManagementNumbers assigns codes to projects that lack one, in
// iteration order. Numbered projects are left untouched, so a second run
// returns an identical list.
func EnsureManagementNumbers(projects []model.Project) []model.Project {
	counters := maxSequences(projects)
	result := make([]model.Project, len(projects))
	for i, p := range projects {
		if p.ManagementNumber == "" {
			prefix := Prefix(p.Category)
			counters[prefix]++
			p.ManagementNumber = format(prefix, counters[prefix])
		}
		result[i] = p
	}
	return result
}

// EnsureRegisteredProjects appends every seed whose exact name is missing
// from projects, giving it a fresh id, then backfills management numbers.
func EnsureRegisteredProjects(projects []model.Project, seeds []model.Project) []model.Project {
	names := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		names[p.Name] = struct{}{}
	}

	result := make([]model.Project, 0, len(projects)+len(seeds))
	result = append(result, projects...)
	for _, seed := range seeds {
		if _, exists := names[seed.Name]; exists {
			continue
		}
		seed.ID = uuid.NewString()
		seed.ManagementNumber = ""
		names[seed.Name] = struct{}{}
		result = append(result, seed)
	}
	return EnsureManagementNumbers(result)
}
