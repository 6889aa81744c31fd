package model

type BidStatus string

const (
	BidStatusScheduled BidStatus = "scheduled"
	BidStatusWon       BidStatus = "won"
	BidStatusLost      BidStatus = "lost"
	BidStatusExpected  BidStatus = "expected"
)

var bidStatusLabels = map[BidStatus]string{
	BidStatusScheduled: "入札予定",
	BidStatusWon:       "落札",
	BidStatusLost:      "失札",
	BidStatusExpected:  "当社受注見込み",
}

func (s BidStatus) Valid() bool {
	_, ok := bidStatusLabels[s]
	return ok
}

func (s BidStatus) Label() string {
	if label, ok := bidStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Awarded reports whether the bid carries an order amount and may be
// promoted to a project.
func (s BidStatus) Awarded() bool {
	return s == BidStatusWon || s == BidStatusExpected
}

type BidSchedule struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Client              string    `json:"client"`
	Category            string    `json:"category"`
	BidDate             string    `json:"bidDate"`
	Status              BidStatus `json:"status"`
	Notes               string    `json:"notes,omitempty"`
	OrderAmount         *int64    `json:"orderAmount,omitempty"`
	IsUnitPriceContract bool      `json:"isUnitPriceContract,omitempty"`
	ProjectID           string    `json:"projectId,omitempty"`
}

func (b BidSchedule) Promoted() bool {
	return b.ProjectID != ""
}
