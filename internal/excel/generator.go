package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/report"
)

const (
	summarySheet  = "案件一覧"
	maxSheetRunes = 31
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the project list and one detail sheet per project.
func (g *Generator) Generate(portfolio report.Portfolio) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, portfolio); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, line := range portfolio.Lines {
		sheetName := buildSheetName(line.Project, usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeDetail(file, sheetName, line, portfolio.Vehicles); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, portfolio report.Portfolio) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	summary := portfolio.Summary
	set("A1", "出力日時")
	set("B1", formatDateTime(portfolio))
	set("A2", "案件数")
	set("B2", summary.ProjectCount)
	set("A3", "受注額合計")
	set("B3", summary.EffectiveContract)
	set("A4", "原価合計")
	set("B4", summary.TotalCost)
	set("A5", "粗利合計")
	set("B5", summary.Profit)
	set("A6", "利益率(%)")
	set("B6", summary.ProfitRate)

	tableRow := 8
	headers := []string{
		"管理番号", "案件名", "顧客", "区分", "施工形態", "ステータス",
		"増減後受注額", "実行予算", "原価合計", "粗利", "利益率(%)",
		"人工(人日)", "車両(台日)", "粗利/人工", "工程進捗(%)",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, line := range portfolio.Lines {
		p, st := line.Project, line.Stats
		values := []interface{}{
			p.ManagementNumber, p.Name, p.Client, model.CategoryLabel(p.Category),
			report.ModeLabel(p.Mode), p.Status.Label(),
			st.EffectiveContract, p.Budget, st.TotalCost, st.Profit, st.ProfitRate,
			st.LaborDays, st.VehicleDays, st.ProfitPerLabor, line.Completion.Percent,
		}
		start, _ := excelize.CoordinatesToCellName(1, tableRow+1+i)
		if err := file.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 45)
	_ = file.SetColWidth(sheet, "C", "C", 24)
	_ = file.SetColWidth(sheet, "D", "O", 14)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, line report.Line, vehicles []model.Vehicle) error {
	p, st := line.Project, line.Stats

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	info := [][2]interface{}{
		{"管理番号", p.ManagementNumber},
		{"案件名", p.Name},
		{"顧客", p.Client},
		{"区分", model.CategoryLabel(p.Category)},
		{"施工形態", report.ModeLabel(p.Mode)},
		{"工期", formatPeriod(p.StartDate, p.EndDate)},
		{"当初契約額", p.OriginalAmount},
		{"増減後受注額", st.EffectiveContract},
		{"実行予算", p.Budget},
		{"原価合計", st.TotalCost},
		{"粗利", st.Profit},
		{"利益率(%)", st.ProfitRate},
	}
	if st.SubcontractAmount != nil {
		info = append(info, [2]interface{}{"外注額", *st.SubcontractAmount})
	}
	for i, kv := range info {
		set(fmt.Sprintf("A%d", i+1), kv[0])
		set(fmt.Sprintf("B%d", i+1), kv[1])
	}

	row := len(info) + 2
	set(fmt.Sprintf("A%d", row), "原価明細")
	row++
	for i, header := range []string{"日付", "区分", "内容", "取引先", "金額"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		set(cell, header)
	}
	for _, cost := range st.Costs {
		row++
		set(fmt.Sprintf("A%d", row), cost.Date)
		set(fmt.Sprintf("B%d", row), cost.Category.Label())
		set(fmt.Sprintf("C%d", row), cost.Description)
		set(fmt.Sprintf("D%d", row), cost.Vendor)
		set(fmt.Sprintf("E%d", row), cost.Amount)
	}

	row += 2
	set(fmt.Sprintf("A%d", row), "人工・車両")
	row++
	for i, header := range []string{"日付", "区分", "内容", "数量", "単位"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		set(cell, header)
	}
	for _, q := range st.Quantities {
		row++
		set(fmt.Sprintf("A%d", row), q.Date)
		set(fmt.Sprintf("B%d", row), q.Category.Label())
		set(fmt.Sprintf("C%d", row), report.QuantityLabel(q, vehicles))
		set(fmt.Sprintf("D%d", row), q.Quantity)
		set(fmt.Sprintf("E%d", row), q.Category.Unit())
	}

	_ = file.SetColWidth(sheet, "A", "A", 16)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	_ = file.SetColWidth(sheet, "C", "C", 36)
	_ = file.SetColWidth(sheet, "D", "E", 16)
	return nil
}

// buildSheetName derives a unique sheet title from the management number
// and name, within Excel's 31 character limit.
func buildSheetName(p model.Project, used map[string]struct{}) string {
	base := strings.TrimSpace(fmt.Sprintf("%s %s", p.ManagementNumber, strings.TrimSpace(p.Name)))
	if base == "" {
		base = p.ID
	}
	base = truncateRunes(sanitizeSheetName(base), maxSheetRunes)

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		nameCandidate = truncateRunes(base, maxSheetRunes-len(suffix)) + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "案件"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "案件"
	}
	return value
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func formatPeriod(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return start + " 〜 " + end
}

func formatDateTime(portfolio report.Portfolio) string {
	if portfolio.GeneratedAt.IsZero() {
		return ""
	}
	return portfolio.GeneratedAt.Format("2006-01-02 15:04")
}
