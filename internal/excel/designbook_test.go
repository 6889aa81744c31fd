package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/seed"
)

func writeSheet(t *testing.T, file *excelize.File, sheet string, rows [][]string) {
	t.Helper()
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow(sheet, start, &values))
	}
}

func buildWorkbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()
	file := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, file.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := file.NewSheet(name)
			require.NoError(t, err)
		}
		writeSheet(t, file, name, rows)
	}
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func item(value string) []string {
	return []string{"", "", "", "", "", value}
}

func breakdownRows() [][]string {
	return [][]string{
		{"", "工事費内訳書"},
		{"", "", "", "", "", "単位"},
		{"", "管きょ更生工（既設管径250mm）"},
		{"", "", "管きょ内面被覆工（雨水）"},
		item("更生材料"),
		item("φ250"),
		{"", "管きょ更生工（既設管径200mm）"},
		{"", "", "管きょ内面被覆工（合流）"},
		item("反転・形成"),
		{"", "", "管きょ内面被覆工（雨水・製管工法）"},
		item("製管"),
		{"", "", "管きょ内面被覆工（雨水）"},
		item("仕上"),
		{"", "換気設備工"},
		{"", "", "換気設備"},
		item("送風機"),
		item("送風機"),
		item("ダクト"),
		item("式"),
		{"", "仮設工"},
		item("交通誘導警備員"),
		{"", "舗装本復旧工"},
		item("舗装"),
		{"", "現場管理費"},
		item("現場管理費"),
	}
}

func sectionNames(p model.ProjectProcess) []string {
	names := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		names[i] = s.Name
	}
	return names
}

func subtaskNames(s model.ProjectSection) []string {
	names := make([]string, len(s.Subtasks))
	for i, st := range s.Subtasks {
		names[i] = st.Name
	}
	return names
}

func TestParseDesignBook_SectionsBySewerType(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{"内訳1": breakdownRows()})

	processes, err := ParseDesignBook(content, DefaultImportRules())
	require.NoError(t, err)
	require.Len(t, processes, 3)

	rules := DefaultImportRules()
	rehab := processes[0]
	assert.Equal(t, seed.ProcessRehabilitation, rehab.ProcessMasterID)
	assert.Equal(t, model.ProcessStatusPending, rehab.Status)
	assert.Equal(t, 0, rehab.SortOrder)
	assert.Equal(t, []string{"φ200（雨水・製管）", "φ200（雨水）", "φ200（合流）", "φ250（雨水）"}, sectionNames(rehab))
	assert.Equal(t, rules.Rehab.FormingTemplate, subtaskNames(rehab.Sections[0]))
	assert.Equal(t, rules.Rehab.Template, subtaskNames(rehab.Sections[1]))
	for i, s := range rehab.Sections {
		assert.Equal(t, i, s.SortOrder)
		assert.NotEmpty(t, s.ID)
	}

	ventilation := processes[1]
	assert.Equal(t, seed.ProcessVentilation, ventilation.ProcessMasterID)
	assert.Equal(t, 1, ventilation.SortOrder)
	require.Len(t, ventilation.Sections, 1)
	assert.Equal(t, "換気設備", ventilation.Sections[0].Name)
	assert.Equal(t, []string{"送風機", "ダクト"}, subtaskNames(ventilation.Sections[0]))

	temporary := processes[2]
	assert.Equal(t, seed.ProcessTemporary, temporary.ProcessMasterID)
	require.Len(t, temporary.Sections, 1)
	assert.Equal(t, "(全体)", temporary.Sections[0].Name)
	assert.Equal(t, []string{"交通誘導警備員"}, subtaskNames(temporary.Sections[0]))

	for _, p := range processes {
		for _, s := range p.Sections {
			for i, st := range s.Subtasks {
				assert.False(t, st.Done)
				assert.Equal(t, i, st.SortOrder)
			}
		}
	}
}

func TestParseDesignBook_SectionsBySpan(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{
		"内訳1": breakdownRows(),
		"代価1": {
			{"第1号代価表"},
			{"更生延長 250mm 35.5m"},
			{"更生延長 200mm 40m"},
			{"更生延長 250mm 12m"},
			{"更生延長 200mm 40m"},
			{"既設管 300mm 5m"},
		},
	})

	processes, err := ParseDesignBook(content, DefaultImportRules())
	require.NoError(t, err)
	require.NotEmpty(t, processes)

	rehab := processes[0]
	assert.Equal(t, seed.ProcessRehabilitation, rehab.ProcessMasterID)
	assert.Equal(t, []string{"φ200 40m", "φ250 12m", "φ250 35.5m"}, sectionNames(rehab))
	for _, s := range rehab.Sections {
		assert.Equal(t, DefaultImportRules().Rehab.Template, subtaskNames(s))
	}
}

func TestParseDesignBook_MissingSheet(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{"表紙": {{"設計書"}}})

	processes, err := ParseDesignBook(content, DefaultImportRules())
	require.NoError(t, err)
	assert.Empty(t, processes)
}

func TestParseDesignBook_UnreadableInput(t *testing.T) {
	_, err := ParseDesignBook([]byte("definitely not a workbook"), DefaultImportRules())
	assert.Error(t, err)
}

func TestParseDesignBook_NoKnownWorkTypes(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{"内訳1": {
		{"", "舗装本復旧工"},
		item("表層"),
		{"", "消費税相当額"},
		item("消費税"),
	}})

	processes, err := ParseDesignBook(content, DefaultImportRules())
	require.NoError(t, err)
	assert.Empty(t, processes)
}

func TestParseDesignBook_CustomRules(t *testing.T) {
	rules := DefaultImportRules()
	rules.BreakdownSheet = "Breakdown"
	rules.WorkTypeMappings = []WorkTypeMapping{{Match: "舗装", ProcessMasterID: "pm14"}}

	content := buildWorkbook(t, map[string][][]string{"Breakdown": {
		{"", "舗装本復旧工"},
		{"", "", "表層工"},
		item("表層"),
		item("基層"),
		{"", "換気設備工"},
		item("送風機"),
	}})

	processes, err := ParseDesignBook(content, rules)
	require.NoError(t, err)
	require.Len(t, processes, 1)
	assert.Equal(t, "pm14", processes[0].ProcessMasterID)
	assert.Equal(t, []string{"表層工"}, sectionNames(processes[0]))
	assert.Equal(t, []string{"表層", "基層"}, subtaskNames(processes[0].Sections[0]))
}

func TestLoadImportRules(t *testing.T) {
	rules, err := LoadImportRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultImportRules(), rules)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
breakdown_sheet: 内訳2
work_type_mappings:
  - match: 舗装
    process_master_id: pm14
`), 0o600))

	rules, err = LoadImportRules(path)
	require.NoError(t, err)
	assert.Equal(t, "内訳2", rules.BreakdownSheet)
	assert.Equal(t, []WorkTypeMapping{{Match: "舗装", ProcessMasterID: "pm14"}}, rules.WorkTypeMappings)
	assert.Equal(t, DefaultImportRules().Rehab, rules.Rehab)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("diameter_token: \"([\"\n"), 0o600))
	_, err = LoadImportRules(bad)
	assert.Error(t, err)

	_, err = LoadImportRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
