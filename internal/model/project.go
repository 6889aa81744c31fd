package model

import "time"

type ProjectMode string

const (
	ProjectModeNormal      ProjectMode = "normal"
	ProjectModeSubcontract ProjectMode = "subcontract"
)

type ProjectStatus string

const (
	ProjectStatusEstimate   ProjectStatus = "estimate"
	ProjectStatusOrdered    ProjectStatus = "ordered"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusBilled     ProjectStatus = "billed"
	ProjectStatusPaid       ProjectStatus = "paid"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectStatusEstimate:   "見積中",
	ProjectStatusOrdered:    "受注済",
	ProjectStatusInProgress: "施工中",
	ProjectStatusCompleted:  "完了",
	ProjectStatusBilled:     "請求済",
	ProjectStatusPaid:       "入金済",
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

// Label returns the display label, or the raw value for unknown statuses.
func (s ProjectStatus) Label() string {
	if label, ok := projectStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

const (
	CategoryConstruction = "construction"
	CategoryService      = "service"
)

var categoryLabels = map[string]string{
	CategoryConstruction: "工事",
	CategoryService:      "業務",
}

// CategoryLabel returns the display label of a project category.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

// NormalizeCategory maps legacy display labels stored by older clients
// back to the category code.
func NormalizeCategory(category string) string {
	for code, label := range categoryLabels {
		if category == label {
			return code
		}
	}
	return category
}

type ChangeType string

const (
	ChangeTypeIncrease ChangeType = "increase"
	ChangeTypeDecrease ChangeType = "decrease"
)

func (t ChangeType) Valid() bool {
	return t == ChangeTypeIncrease || t == ChangeTypeDecrease
}

// Sign is +1 for increases and -1 for decreases.
func (t ChangeType) Sign() int64 {
	if t == ChangeTypeDecrease {
		return -1
	}
	return 1
}

type Payment struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type ChangeOrder struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Type        ChangeType `json:"type"`
	Amount      int64      `json:"amount"`
	Description string     `json:"description"`
}

type Project struct {
	ID               string        `json:"id"`
	ManagementNumber string        `json:"managementNumber,omitempty"`
	Name             string        `json:"name"`
	Client           string        `json:"client"`
	Category         string        `json:"category"`
	OriginalAmount   int64         `json:"originalAmount"`
	ContractAmount   int64         `json:"contractAmount"` // display cache, see metrics.EffectiveContract
	Budget           int64         `json:"budget"`
	BilledAmount     int64         `json:"billedAmount"`
	PaidAmount       int64         `json:"paidAmount"`
	Status           ProjectStatus `json:"status"`
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	Progress         int           `json:"progress"`
	Notes            string        `json:"notes,omitempty"`

	Mode              ProjectMode `json:"mode"`
	MarginRate        float64     `json:"marginRate"`
	SubcontractAmount int64       `json:"subcontractAmount"`
	SubcontractVendor string      `json:"subcontractVendor"`

	Payments         []Payment        `json:"payments"`
	Changes          []ChangeOrder    `json:"changes"`
	ProjectProcesses []ProjectProcess `json:"projectProcesses,omitempty"`

	Archived    bool       `json:"archived,omitempty"`
	ArchiveYear string     `json:"archiveYear,omitempty"`
	Deleted     bool       `json:"deleted,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

func (p Project) IsSubcontract() bool {
	return p.Mode == ProjectModeSubcontract
}

// ProjectView selects one of the lifecycle lists. Deleted wins over archived.
type ProjectView string

const (
	ProjectViewActive   ProjectView = "active"
	ProjectViewArchived ProjectView = "archived"
	ProjectViewDeleted  ProjectView = "deleted"
)

func (p Project) View() ProjectView {
	switch {
	case p.Deleted:
		return ProjectViewDeleted
	case p.Archived:
		return ProjectViewArchived
	default:
		return ProjectViewActive
	}
}
