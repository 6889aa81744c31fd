package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/tokito/genka-kanri/internal/metrics"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/report"
)

// Generator renders project summaries. Japanese text needs a UTF-8 TrueType
// font, so one must be supplied.
type Generator struct {
	fontName string
	font     []byte
}

func NewGenerator(font []byte) (*Generator, error) {
	if len(font) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	return &Generator{fontName: "NotoSansJP", font: font}, nil
}

// NewGeneratorFromFile reads the TrueType font at path.
func NewGeneratorFromFile(path string) (*Generator, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("font path is empty")
	}
	font, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return NewGenerator(font)
}

// Generate renders one project: contract figures, costs, quantities and
// process completion.
func (g *Generator) Generate(line report.Line, processMasters []model.ProcessMaster, vehicles []model.Vehicle) ([]byte, error) {
	p, st := line.Project, line.Stats

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddUTF8FontFromBytes(g.fontName, "", g.font)
	pdf.AddUTF8FontFromBytes(g.fontName, "B", g.font)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "工事原価報告書", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s  %s", safeValue(p.ManagementNumber), p.Name), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("顧客: %s  区分: %s  %s", safeValue(p.Client), model.CategoryLabel(p.Category), report.ModeLabel(p.Mode)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("工期: %s 〜 %s  ステータス: %s", safeValue(p.StartDate), safeValue(p.EndDate), p.Status.Label()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, g.fontName, "収支")
	widths := []float64{90, 90}
	for _, row := range summaryRows(p, st) {
		drawTableRow(pdf, g.fontName, row, widths, false)
	}
	pdf.Ln(4)

	section(pdf, g.fontName, "原価明細")
	costWidths := []float64{25, 25, 65, 35, 30}
	drawTableRow(pdf, g.fontName, []string{"日付", "区分", "内容", "取引先", "金額"}, costWidths, true)
	for _, cost := range st.Costs {
		drawTableRow(pdf, g.fontName, []string{
			safeValue(cost.Date), cost.Category.Label(), safeValue(cost.Description), safeValue(cost.Vendor), formatYen(cost.Amount),
		}, costWidths, false)
	}
	pdf.Ln(4)

	section(pdf, g.fontName, "人工・車両")
	quantityWidths := []float64{25, 25, 80, 25, 25}
	drawTableRow(pdf, g.fontName, []string{"日付", "区分", "内容", "数量", "単位"}, quantityWidths, true)
	for _, q := range st.Quantities {
		drawTableRow(pdf, g.fontName, []string{
			safeValue(q.Date), q.Category.Label(), safeValue(report.QuantityLabel(q, vehicles)),
			strconv.FormatFloat(q.Quantity, 'f', -1, 64), q.Category.Unit(),
		}, quantityWidths, false)
	}

	if len(p.ProjectProcesses) > 0 {
		pdf.Ln(4)
		section(pdf, g.fontName, fmt.Sprintf("工程 (進捗 %d%%)", line.Completion.Percent))
		processWidths := []float64{120, 60}
		for _, process := range p.ProjectProcesses {
			c := metrics.SectionCompletion(process.Sections)
			drawTableRow(pdf, g.fontName, []string{
				processName(process.ProcessMasterID, processMasters),
				fmt.Sprintf("%d / %d (%d%%)", c.Done, c.Total, c.Percent),
			}, processWidths, false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func summaryRows(p model.Project, st metrics.Stats) [][]string {
	rows := [][]string{
		{"当初契約額", formatYen(p.OriginalAmount)},
		{"増減後受注額", formatYen(st.EffectiveContract)},
		{"実行予算", formatYen(p.Budget)},
		{"原価合計", formatYen(st.TotalCost)},
		{"粗利", formatYen(st.Profit)},
		{"利益率", fmt.Sprintf("%d%%", st.ProfitRate)},
		{"予算消化率", fmt.Sprintf("%d%%", st.BudgetUsed)},
		{"人工", strconv.FormatFloat(st.LaborDays, 'f', -1, 64) + " 人日"},
		{"車両", strconv.FormatFloat(st.VehicleDays, 'f', -1, 64) + " 台日"},
		{"請求額", formatYen(p.BilledAmount)},
		{"入金額", formatYen(p.PaidAmount)},
	}
	if st.SubcontractAmount != nil {
		rows = append(rows, []string{"外注額", formatYen(*st.SubcontractAmount)})
		if p.SubcontractVendor != "" {
			rows = append(rows, []string{"外注先", p.SubcontractVendor})
		}
	}
	if st.LaborDays != 0 {
		rows = append(rows,
			[]string{"売上/人工", formatYen(st.RevenuePerLabor)},
			[]string{"粗利/人工", formatYen(st.ProfitPerLabor)},
		)
	}
	return rows
}

func section(pdf *gofpdf.Fpdf, fontName, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == len(cols)-1 && !header {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func processName(id string, masters []model.ProcessMaster) string {
	for _, m := range masters {
		if m.ID == id {
			return strings.TrimSpace(m.Icon + " " + m.Name)
		}
	}
	return id
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return report.Placeholder
	}
	return value
}

// formatYen groups digits by thousands, e.g. ¥-1,234,567.
func formatYen(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	digits := strconv.FormatInt(value, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "¥" + sign + b.String()
}
