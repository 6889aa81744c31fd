package excel

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tokito/genka-kanri/internal/model"
)

// subTypeGroup keeps line-items in sheet order.
type subTypeGroup struct {
	name  string
	items []string
}

type workTypeGroup struct {
	name     string
	subTypes []*subTypeGroup
	index    map[string]*subTypeGroup
}

func (g *workTypeGroup) subType(name string) *subTypeGroup {
	if st, ok := g.index[name]; ok {
		return st
	}
	st := &subTypeGroup{name: name}
	g.index[name] = st
	g.subTypes = append(g.subTypes, st)
	return st
}

type breakdown struct {
	workTypes []*workTypeGroup
	index     map[string]*workTypeGroup
}

func (b *breakdown) workType(name string) *workTypeGroup {
	if wt, ok := b.index[name]; ok {
		return wt
	}
	wt := &workTypeGroup{name: name, index: make(map[string]*subTypeGroup)}
	b.index[name] = wt
	b.workTypes = append(b.workTypes, wt)
	return wt
}

type span struct {
	diameter int
	length   float64
	label    string
}

// ParseDesignBook turns a design book workbook into a process checklist.
// Rows that do not fit the expected layout are skipped; a missing breakdown
// sheet yields an empty result. Only an unreadable workbook is an error.
func ParseDesignBook(content []byte, rules ImportRules) ([]model.ProjectProcess, error) {
	compiled, err := rules.compile()
	if err != nil {
		return nil, err
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	rows, err := file.GetRows(compiled.BreakdownSheet)
	if err != nil {
		return []model.ProjectProcess{}, nil
	}
	var spanRows [][]string
	if compiled.SpanSheet != "" {
		spanRows, _ = file.GetRows(compiled.SpanSheet)
	}

	return buildProcesses(compiled, classifyRows(compiled, rows), extractSpans(compiled, spanRows)), nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// classifyRows walks the work-type / sub-type / line-item indentation.
func classifyRows(r *compiledRules, rows [][]string) *breakdown {
	b := &breakdown{index: make(map[string]*workTypeGroup)}
	var current *workTypeGroup
	currentSubType := ""

	for _, row := range rows {
		workType := cell(row, r.WorkTypeColumn)
		subType := cell(row, r.SubTypeColumn)
		lineItem := cell(row, r.LineItemColumn)

		if workType != "" && !r.isHeader(workType) {
			current = nil
			currentSubType = ""
			if !r.isExcluded(workType) {
				current = b.workType(workType)
			}
		}
		if workType == "" && subType != "" && !r.isHeader(subType) {
			currentSubType = subType
			if current != nil {
				current.subType(subType)
			}
		}
		if current == nil || lineItem == "" || r.isHeader(lineItem) || r.diameterToken.MatchString(lineItem) {
			continue
		}
		name := currentSubType
		if name == "" {
			name = r.WholePlaceholder
		}
		st := current.subType(name)
		st.items = append(st.items, lineItem)
	}
	return b
}

func extractSpans(r *compiledRules, rows [][]string) []span {
	seen := make(map[string]struct{})
	var spans []span
	for _, row := range rows {
		value := cell(row, r.SpanColumn)
		if value == "" || !strings.Contains(value, r.Rehab.SpanMarker) {
			continue
		}
		m := r.span.FindStringSubmatch(value)
		if len(m) < 3 {
			continue
		}
		diameter, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		length, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		key := m[1] + "_" + m[2]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		spans = append(spans, span{diameter: diameter, length: length, label: fmt.Sprintf("φ%d %sm", diameter, m[2])})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].diameter != spans[j].diameter {
			return spans[i].diameter < spans[j].diameter
		}
		return spans[i].length < spans[j].length
	})
	return spans
}

type rehabSection struct {
	name     string
	diameter int
	kind     int
	forming  bool
}

// rehabSectionsByType builds one section per (diameter, sewer type, method).
func rehabSectionsByType(r *compiledRules, groups []*workTypeGroup) []rehabSection {
	seen := make(map[string]struct{})
	var sections []rehabSection
	for _, wt := range groups {
		wtDiameter := r.rehabDiameter.FindStringSubmatch(wt.name)
		for _, st := range wt.subTypes {
			if !strings.Contains(st.name, r.Rehab.LiningToken) {
				continue
			}
			m := wtDiameter
			if m == nil {
				m = r.rehabDiameter.FindStringSubmatch(st.name)
			}
			if len(m) < 2 {
				continue
			}
			diameter, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}

			var sewer string
			var kind int
			switch {
			case strings.Contains(st.name, r.Rehab.RainToken):
				sewer, kind = r.Rehab.RainToken, 0
			case strings.Contains(st.name, r.Rehab.CombinedToken):
				sewer, kind = r.Rehab.CombinedToken, 1
			default:
				continue
			}
			forming := r.Rehab.FormingToken != "" && strings.Contains(st.name, r.Rehab.FormingToken)

			name := fmt.Sprintf("φ%d（%s）", diameter, sewer)
			if forming {
				name = fmt.Sprintf("φ%d（%s・%s）", diameter, sewer, r.Rehab.FormingLabel)
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			sections = append(sections, rehabSection{name: name, diameter: diameter, kind: kind, forming: forming})
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].diameter != sections[j].diameter {
			return sections[i].diameter < sections[j].diameter
		}
		return sections[i].kind < sections[j].kind
	})
	return sections
}

func buildProcesses(r *compiledRules, b *breakdown, spans []span) []model.ProjectProcess {
	processes := make([]model.ProjectProcess, 0)
	rehabDone := false

	for _, wt := range b.workTypes {
		var masterID string
		var sections []model.ProjectSection

		switch {
		case r.isRehab(wt.name):
			if rehabDone {
				continue
			}
			rehabDone = true
			masterID = r.Rehab.ProcessMasterID
			sections = rehabSections(r, b, spans)
		default:
			id, ok := r.mappedProcess(wt.name)
			if !ok {
				continue
			}
			masterID = id
			for _, st := range wt.subTypes {
				items := unique(st.items)
				if len(items) == 0 {
					continue
				}
				sections = append(sections, newSection(st.name, len(sections), items))
			}
		}

		if len(sections) == 0 {
			continue
		}
		processes = append(processes, model.ProjectProcess{
			ID:              uuid.NewString(),
			ProcessMasterID: masterID,
			Status:          model.ProcessStatusPending,
			SortOrder:       len(processes),
			Sections:        sections,
		})
	}
	return processes
}

// rehabSections prefers span declarations from the unit-price sheet and
// falls back to the breakdown's sewer-type grouping.
func rehabSections(r *compiledRules, b *breakdown, spans []span) []model.ProjectSection {
	var sections []model.ProjectSection
	if len(spans) > 0 {
		for _, s := range spans {
			sections = append(sections, newSection(s.label, len(sections), r.Rehab.Template))
		}
		return sections
	}

	var groups []*workTypeGroup
	for _, wt := range b.workTypes {
		if r.isRehab(wt.name) {
			groups = append(groups, wt)
		}
	}
	for _, s := range rehabSectionsByType(r, groups) {
		template := r.Rehab.Template
		if s.forming {
			template = r.Rehab.FormingTemplate
		}
		sections = append(sections, newSection(s.name, len(sections), template))
	}
	return sections
}

func newSection(name string, order int, subtaskNames []string) model.ProjectSection {
	subtasks := make([]model.ProjectSubtask, len(subtaskNames))
	for i, n := range subtaskNames {
		subtasks[i] = model.ProjectSubtask{
			ID:        uuid.NewString(),
			Name:      n,
			Done:      false,
			SortOrder: i,
		}
	}
	return model.ProjectSection{
		ID:        uuid.NewString(),
		Name:      name,
		SortOrder: order,
		Subtasks:  subtasks,
	}
}

func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
