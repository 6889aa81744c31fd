package seed

import (
	"strconv"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/numbering"
)

// Catalog ids referenced by the design-book import rules.
const (
	ProcessCleaning       = "pm01"
	ProcessCameraSurvey   = "pm02"
	ProcessLateral        = "pm03"
	ProcessRehabilitation = "pm04"
	ProcessVentilation    = "pm05"
	ProcessDewatering     = "pm06"
	ProcessTemporary      = "pm07"
	ProcessManhole        = "pm08"
	ProcessAncillary      = "pm12"
)

func Vehicles() []model.Vehicle {
	registrations := []string{
		"堺 800 さ 1299", "堺 800 さ 3119", "堺 800 さ 4840", "堺 800 は 61",
		"堺 800 さ 3118", "堺 800 さ 4750", "堺 800 さ 4674", "堺 800 は 279",
		"堺 800 は 366", "堺 130 さ 3526", "堺 800 さ 2723", "和泉 800 さ 1894",
		"堺 800 さ 958", "堺 830 せ 1717", "堺 830 さ 2626", "堺 800 さ 2016",
		"堺 430 せ 3517", "堺 800 さ 5035", "堺 330 ね 2617", "堺 330 ま 1726",
		"堺 530 て 1735", "堺 332 や 316", "堺 334 ま 116", "堺 342 ろ 13",
		"大阪 800 そ 6712", "大阪 800 そ 6711", "大阪 800 そ 6719", "和泉 830 な 1188",
		"大阪 400 む 9052", "大阪 800 そ 7329", "大阪 800 は 2214",
	}
	vehicles := make([]model.Vehicle, len(registrations))
	for i, reg := range registrations {
		vehicles[i] = model.Vehicle{ID: vehicleID(i + 1), Registration: reg}
	}
	return vehicles
}

func vehicleID(n int) string {
	return "v" + strconv.Itoa(n)
}

func ProcessMasters() []model.ProcessMaster {
	masters := []model.ProcessMaster{
		{ID: ProcessCleaning, Name: "管きょ清掃工", Icon: "🧹", DefaultSubs: []string{"高圧洗浄", "汚泥吸引", "汚泥処分"}},
		{ID: ProcessCameraSurvey, Name: "TVカメラ調査工", Icon: "📹", DefaultSubs: []string{"調査準備", "カメラ調査", "報告書作成"}},
		{ID: ProcessLateral, Name: "取付管工", Icon: "🔧", DefaultSubs: []string{"削孔", "取付管布設", "接続"}},
		{ID: ProcessRehabilitation, Name: "管きょ更生工", Icon: "🛠️", DefaultSubs: []string{"更生材料", "反転・形成", "仕上（管口切断・仕上）", "仮設備（設置・撤去）"}},
		{ID: ProcessVentilation, Name: "換気設備工", Icon: "💨", DefaultSubs: []string{"換気設備設置", "運転", "撤去"}},
		{ID: ProcessDewatering, Name: "水替工", Icon: "💧", DefaultSubs: []string{"水替設備設置", "運転", "撤去"}},
		{ID: ProcessTemporary, Name: "仮設工（交通誘導）", Icon: "🚧", DefaultSubs: []string{"交通規制設置", "誘導警備員配置", "規制撤去"}},
		{ID: ProcessManhole, Name: "マンホール工", Icon: "⭕", DefaultSubs: []string{"据付", "調整", "仕上"}},
		{ID: "pm09", Name: "マンホール更生工", Icon: "🔩", DefaultSubs: []string{"下地処理", "更生", "仕上"}},
		{ID: "pm10", Name: "止水工", Icon: "🚰", DefaultSubs: []string{"注入準備", "止水注入", "確認"}},
		{ID: "pm11", Name: "管口切断工", Icon: "✂️", DefaultSubs: []string{"切断", "仕上"}},
		{ID: ProcessAncillary, Name: "付帯工", Icon: "📎", DefaultSubs: []string{"準備", "施工", "片付け"}},
		{ID: "pm13", Name: "土工", Icon: "⛏️", DefaultSubs: []string{"掘削", "埋戻し", "残土処分"}},
		{ID: "pm14", Name: "舗装復旧工", Icon: "🛣️", DefaultSubs: []string{"仮復旧", "本復旧"}},
		{ID: "pm15", Name: "管布設工", Icon: "🧱", DefaultSubs: []string{"管据付", "接合", "水圧試験"}},
		{ID: "pm16", Name: "推進工", Icon: "➡️", DefaultSubs: []string{"立坑築造", "推進", "立坑撤去"}},
		{ID: "pm17", Name: "人孔耐震化工", Icon: "🏗️", DefaultSubs: []string{"切断", "可とう継手設置", "仕上"}},
		{ID: "pm18", Name: "取付管更生工", Icon: "🔗", DefaultSubs: []string{"事前調査", "更生", "事後調査"}},
		{ID: "pm19", Name: "浚渫工", Icon: "🚜", DefaultSubs: []string{"浚渫", "運搬", "処分"}},
		{ID: "pm20", Name: "薬液注入工", Icon: "🧪", DefaultSubs: []string{"削孔", "注入", "効果確認"}},
		{ID: "pm21", Name: "撤去工", Icon: "🗑️", DefaultSubs: []string{"撤去", "運搬", "処分"}},
		{ID: "pm22", Name: "事前調査工", Icon: "🔍", DefaultSubs: []string{"現地確認", "記録"}},
		{ID: "pm23", Name: "出来形管理", Icon: "📐", DefaultSubs: []string{"測定", "写真整理", "書類作成"}},
		{ID: "pm24", Name: "後片付け", Icon: "🧽", DefaultSubs: []string{"清掃", "資材搬出"}},
	}
	for i := range masters {
		masters[i].SortOrder = i
	}
	return masters
}

// RegisteredProjects are the contracts already under way when the store was
// first brought up.
func RegisteredProjects() []model.Project {
	return []model.Project{
		{
			Name:           "榎元町ほか下水管耐震化工事（７－２１）",
			Client:         "堺市上下水道局",
			Category:       model.CategoryConstruction,
			OriginalAmount: 48_600_000,
			ContractAmount: 48_600_000,
			Budget:         34_020_000,
			Status:         model.ProjectStatusOrdered,
			Mode:           model.ProjectModeNormal,
			Payments:       []model.Payment{},
			Changes:        []model.ChangeOrder{},
		},
		{
			Name:           "下水道管きょ調査業務（北区）",
			Client:         "堺市上下水道局",
			Category:       model.CategoryService,
			OriginalAmount: 6_200_000,
			ContractAmount: 6_200_000,
			Budget:         4_340_000,
			Status:         model.ProjectStatusOrdered,
			Mode:           model.ProjectModeNormal,
			Payments:       []model.Payment{},
			Changes:        []model.ChangeOrder{},
		},
	}
}

// Baseline is the document served when the store holds nothing yet.
func Baseline() model.Dataset {
	return model.Dataset{
		Projects:       numbering.EnsureRegisteredProjects(nil, RegisteredProjects()),
		Costs:          []model.Cost{},
		Quantities:     []model.Quantity{},
		Vehicles:       Vehicles(),
		ProcessMasters: ProcessMasters(),
		BidSchedules:   []model.BidSchedule{},
	}
}
