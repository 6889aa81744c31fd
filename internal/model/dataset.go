package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Dataset is the whole shared document. It is persisted as one JSON value.
type Dataset struct {
	Projects       []Project       `json:"projects"`
	Costs          []Cost          `json:"costs"`
	Quantities     []Quantity      `json:"quantities"`
	Vehicles       []Vehicle       `json:"vehicles"`
	ProcessMasters []ProcessMaster `json:"processMasters"`
	BidSchedules   []BidSchedule   `json:"bidSchedules"`
}

func (d Dataset) IsEmpty() bool {
	return len(d.Projects) == 0 &&
		len(d.Costs) == 0 &&
		len(d.Quantities) == 0 &&
		len(d.BidSchedules) == 0
}

// DataRecord is the storage row holding a Dataset.
type DataRecord struct {
	ID        string         `gorm:"type:text;primaryKey"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (DataRecord) TableName() string { return "genka_kanri_data" }

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// Principal is the authenticated session as seen by the core.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	TokenID string
}

func (p Principal) Authenticated() bool {
	return p.Email != ""
}
