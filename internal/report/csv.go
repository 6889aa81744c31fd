package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/tokito/genka-kanri/internal/model"
)

// Placeholder fills cells that have no meaningful value for the row.
const Placeholder = "—"

const utf8BOM = "\ufeff"

// CSVHeader is the fixed column order of the project list export.
var CSVHeader = []string{
	"管理番号", "案件名", "顧客", "区分", "施工形態", "開始日", "終了日",
	"当初契約額", "増減後受注額", "実行予算", "原価合計", "粗利", "利益率", "マージン率",
	"人工(人日)", "車両(台日)", "売上/人工", "粗利/人工", "進捗", "ステータス",
	"アーカイブ年度", "削除日",
}

// WriteCSV writes the project list as UTF-8 with a byte-order mark so that
// spreadsheet software detects the encoding. Text fields are always quoted.
func WriteCSV(w io.Writer, lines []Line) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM + strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := bw.WriteString(strings.Join(csvRow(line), ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvRow(line Line) []string {
	p, st := line.Project, line.Stats

	marginRate := Placeholder
	if p.IsSubcontract() {
		marginRate = formatNumber(p.MarginRate) + "%"
	}
	revenuePerLabor, profitPerLabor := Placeholder, Placeholder
	if st.LaborDays != 0 {
		revenuePerLabor = strconv.FormatInt(st.RevenuePerLabor, 10)
		profitPerLabor = strconv.FormatInt(st.ProfitPerLabor, 10)
	}
	deletedAt := Placeholder
	if p.DeletedAt != nil {
		deletedAt = p.DeletedAt.Format("2006/1/2")
	}

	return []string{
		quote(p.ManagementNumber),
		quote(p.Name),
		quote(p.Client),
		quote(model.CategoryLabel(p.Category)),
		quote(ModeLabel(p.Mode)),
		orPlaceholder(p.StartDate),
		orPlaceholder(p.EndDate),
		strconv.FormatInt(p.OriginalAmount, 10),
		strconv.FormatInt(st.EffectiveContract, 10),
		strconv.FormatInt(p.Budget, 10),
		strconv.FormatInt(st.TotalCost, 10),
		strconv.FormatInt(st.Profit, 10),
		strconv.FormatInt(st.ProfitRate, 10) + "%",
		marginRate,
		formatNumber(st.LaborDays),
		formatNumber(st.VehicleDays),
		revenuePerLabor,
		profitPerLabor,
		strconv.Itoa(p.Progress) + "%",
		quote(p.Status.Label()),
		orPlaceholder(p.ArchiveYear),
		deletedAt,
	}
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
