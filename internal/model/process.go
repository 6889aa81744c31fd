package model

type ProcessMaster struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	DefaultSubs []string `json:"defaultSubs"`
	SortOrder   int      `json:"sortOrder"`
}

type ProcessStatus string

const (
	ProcessStatusPending ProcessStatus = "pending"
	ProcessStatusActive  ProcessStatus = "active"
	ProcessStatusDone    ProcessStatus = "done"
	ProcessStatusHold    ProcessStatus = "hold"
)

func (s ProcessStatus) Valid() bool {
	switch s {
	case ProcessStatusPending, ProcessStatusActive, ProcessStatusDone, ProcessStatusHold:
		return true
	}
	return false
}

type ProjectProcess struct {
	ID              string           `json:"id"`
	ProcessMasterID string           `json:"processMasterId"`
	Status          ProcessStatus    `json:"status"`
	SortOrder       int              `json:"sortOrder"`
	Sections        []ProjectSection `json:"sections"`
}

type ProjectSection struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	SortOrder int              `json:"sortOrder"`
	Subtasks  []ProjectSubtask `json:"subtasks"`
}

type ProjectSubtask struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Done      bool   `json:"done"`
	SortOrder int    `json:"sortOrder"`
}
