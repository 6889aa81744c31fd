package excel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/tokito/genka-kanri/internal/seed"
)

// WorkTypeMapping routes a work-type whose name contains Match to a process
// catalog entry.
type WorkTypeMapping struct {
	Match           string `mapstructure:"match"`
	ProcessMasterID string `mapstructure:"process_master_id"`
}

// RehabRules describe how pipe rehabilitation work-types are sectioned.
type RehabRules struct {
	Token           string   `mapstructure:"token"`
	ProcessMasterID string   `mapstructure:"process_master_id"`
	DiameterPattern string   `mapstructure:"diameter_pattern"`
	LiningToken     string   `mapstructure:"lining_token"`
	RainToken       string   `mapstructure:"rain_token"`
	CombinedToken   string   `mapstructure:"combined_token"`
	FormingToken    string   `mapstructure:"forming_token"`
	FormingLabel    string   `mapstructure:"forming_label"`
	SpanMarker      string   `mapstructure:"span_marker"`
	SpanPattern     string   `mapstructure:"span_pattern"`
	Template        []string `mapstructure:"template"`
	FormingTemplate []string `mapstructure:"forming_template"`
}

// ImportRules hold every sheet-format constant the design-book importer
// relies on. Supporting another document convention is a rules change.
type ImportRules struct {
	BreakdownSheet    string            `mapstructure:"breakdown_sheet"`
	SpanSheet         string            `mapstructure:"span_sheet"`
	WorkTypeColumn    int               `mapstructure:"work_type_column"`
	SubTypeColumn     int               `mapstructure:"sub_type_column"`
	LineItemColumn    int               `mapstructure:"line_item_column"`
	SpanColumn        int               `mapstructure:"span_column"`
	HeaderPrefixes    []string          `mapstructure:"header_prefixes"`
	HeaderExact       []string          `mapstructure:"header_exact"`
	DiameterToken     string            `mapstructure:"diameter_token"`
	ExcludedWorkTypes []string          `mapstructure:"excluded_work_types"`
	WholePlaceholder  string            `mapstructure:"whole_placeholder"`
	Rehab             RehabRules        `mapstructure:"rehab"`
	WorkTypeMappings  []WorkTypeMapping `mapstructure:"work_type_mappings"`
}

// DefaultImportRules match the municipal sewer-works design book layout
// (内訳1 breakdown, 代価1 unit-price sheet).
func DefaultImportRules() ImportRules {
	return ImportRules{
		BreakdownSheet:    "内訳1",
		SpanSheet:         "代価1",
		WorkTypeColumn:    1,
		SubTypeColumn:     2,
		LineItemColumn:    5,
		SpanColumn:        0,
		HeaderPrefixes:    []string{"工事費内訳", "国費", "工事区分", "単位", "数量", "単価", "金額", "摘要"},
		HeaderExact:       []string{"式"},
		DiameterToken:     `^φ\d+$`,
		ExcludedWorkTypes: []string{"現場管理費", "一般管理費等", "消費税相当額"},
		WholePlaceholder:  "(全体)",
		Rehab: RehabRules{
			Token:           "管きょ更生工",
			ProcessMasterID: seed.ProcessRehabilitation,
			DiameterPattern: `既設管径(\d+)mm`,
			LiningToken:     "管きょ内面被覆工",
			RainToken:       "雨水",
			CombinedToken:   "合流",
			FormingToken:    "製管工法",
			FormingLabel:    "製管",
			SpanMarker:      "更生延長",
			SpanPattern:     `(\d+)mm\s*([\d.]+)m`,
			Template:        []string{"更生材料", "反転・形成", "仕上（管口切断・仕上）", "仮設備（設置・撤去）"},
			FormingTemplate: []string{"管更生工", "既設管整備工", "取付管工"},
		},
		WorkTypeMappings: []WorkTypeMapping{
			{Match: "換気設備工", ProcessMasterID: seed.ProcessVentilation},
			{Match: "仮設工", ProcessMasterID: seed.ProcessTemporary},
			{Match: "水替工", ProcessMasterID: seed.ProcessDewatering},
			{Match: "管きょ清掃工", ProcessMasterID: seed.ProcessCleaning},
			{Match: "TVカメラ調査工", ProcessMasterID: seed.ProcessCameraSurvey},
			{Match: "取付管工", ProcessMasterID: seed.ProcessLateral},
			{Match: "マンホール工", ProcessMasterID: seed.ProcessManhole},
			{Match: "付帯工", ProcessMasterID: seed.ProcessAncillary},
		},
	}
}

// LoadImportRules overlays a YAML or JSON rules file on the defaults. An
// empty path returns the defaults.
func LoadImportRules(path string) (ImportRules, error) {
	rules := DefaultImportRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ImportRules{}, fmt.Errorf("read import rules %s: %w", path, err)
	}
	// Lists in the file replace the defaults instead of merging by index.
	lists := map[string]*[]string{
		"header_prefixes":        &rules.HeaderPrefixes,
		"header_exact":           &rules.HeaderExact,
		"excluded_work_types":    &rules.ExcludedWorkTypes,
		"rehab.template":         &rules.Rehab.Template,
		"rehab.forming_template": &rules.Rehab.FormingTemplate,
	}
	for key, list := range lists {
		if v.IsSet(key) {
			*list = nil
		}
	}
	if v.IsSet("work_type_mappings") {
		rules.WorkTypeMappings = nil
	}
	if err := v.Unmarshal(&rules); err != nil {
		return ImportRules{}, fmt.Errorf("decode import rules %s: %w", path, err)
	}
	if _, err := rules.compile(); err != nil {
		return ImportRules{}, err
	}
	return rules, nil
}

type compiledRules struct {
	ImportRules
	diameterToken *regexp.Regexp
	rehabDiameter *regexp.Regexp
	span          *regexp.Regexp
}

func (r ImportRules) compile() (*compiledRules, error) {
	diameterToken, err := regexp.Compile(r.DiameterToken)
	if err != nil {
		return nil, fmt.Errorf("diameter_token: %w", err)
	}
	rehabDiameter, err := regexp.Compile(r.Rehab.DiameterPattern)
	if err != nil {
		return nil, fmt.Errorf("rehab.diameter_pattern: %w", err)
	}
	span, err := regexp.Compile(r.Rehab.SpanPattern)
	if err != nil {
		return nil, fmt.Errorf("rehab.span_pattern: %w", err)
	}
	return &compiledRules{
		ImportRules:   r,
		diameterToken: diameterToken,
		rehabDiameter: rehabDiameter,
		span:          span,
	}, nil
}

func (r *compiledRules) isHeader(value string) bool {
	for _, exact := range r.HeaderExact {
		if value == exact {
			return true
		}
	}
	for _, prefix := range r.HeaderPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

func (r *compiledRules) isExcluded(workType string) bool {
	for _, excluded := range r.ExcludedWorkTypes {
		if strings.Contains(workType, excluded) {
			return true
		}
	}
	return false
}

func (r *compiledRules) isRehab(workType string) bool {
	return r.Rehab.Token != "" && strings.Contains(workType, r.Rehab.Token)
}

func (r *compiledRules) mappedProcess(workType string) (string, bool) {
	for _, mapping := range r.WorkTypeMappings {
		if mapping.Match != "" && strings.Contains(workType, mapping.Match) {
			return mapping.ProcessMasterID, true
		}
	}
	return "", false
}
