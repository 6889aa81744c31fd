package state

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tokito/genka-kanri/internal/model"
)

type BidInput struct {
	Name                string
	Client              string
	Category            string
	BidDate             string
	Status              model.BidStatus
	Notes               string
	OrderAmount         *int64
	IsUnitPriceContract bool
}

func AddBid(ds model.Dataset, in BidInput) (model.Dataset, model.BidSchedule, error) {
	bid, err := buildBid(in)
	if err != nil {
		return ds, model.BidSchedule{}, err
	}
	bid.ID = uuid.NewString()
	ds.BidSchedules = append(append([]model.BidSchedule{}, ds.BidSchedules...), bid)
	return ds, bid, nil
}

// UpdateBid replaces the editable fields. The promotion link is kept.
func UpdateBid(ds model.Dataset, id string, in BidInput) (model.Dataset, model.BidSchedule, error) {
	idx := bidIndex(ds, id)
	if idx < 0 {
		return ds, model.BidSchedule{}, fmt.Errorf("%w: bid schedule %s", ErrNotFound, id)
	}
	bid, err := buildBid(in)
	if err != nil {
		return ds, model.BidSchedule{}, err
	}
	bid.ID = id
	bid.ProjectID = ds.BidSchedules[idx].ProjectID

	bids := append([]model.BidSchedule{}, ds.BidSchedules...)
	bids[idx] = bid
	ds.BidSchedules = bids
	return ds, bid, nil
}

func DeleteBid(ds model.Dataset, id string) (model.Dataset, error) {
	idx := bidIndex(ds, id)
	if idx < 0 {
		return ds, fmt.Errorf("%w: bid schedule %s", ErrNotFound, id)
	}
	bids := make([]model.BidSchedule, 0, len(ds.BidSchedules)-1)
	bids = append(bids, ds.BidSchedules[:idx]...)
	ds.BidSchedules = append(bids, ds.BidSchedules[idx+1:]...)
	return ds, nil
}

// PromoteBid turns an awarded bid into a project, at most once.
func PromoteBid(ds model.Dataset, id string) (model.Dataset, model.Project, error) {
	idx := bidIndex(ds, id)
	if idx < 0 {
		return ds, model.Project{}, fmt.Errorf("%w: bid schedule %s", ErrNotFound, id)
	}
	bid := ds.BidSchedules[idx]
	if bid.Promoted() {
		return ds, model.Project{}, fmt.Errorf("%w: bid schedule already promoted to project %s", ErrConflict, bid.ProjectID)
	}
	if !bid.Status.Awarded() {
		return ds, model.Project{}, fmt.Errorf("%w: only won or expected bids can be promoted", ErrConflict)
	}
	if err := checkOrderAmount(bid.OrderAmount, bid.IsUnitPriceContract); err != nil {
		return ds, model.Project{}, err
	}

	notes := bid.Notes
	if bid.IsUnitPriceContract {
		notes = strings.TrimSpace(notes + "\n※単価契約")
	}
	ds, project, err := CreateProject(ds, ProjectInput{
		Name:            bid.Name,
		Client:          bid.Client,
		Category:        bid.Category,
		Amount:          *bid.OrderAmount,
		Status:          model.ProjectStatusOrdered,
		Notes:           notes,
		Mode:            model.ProjectModeNormal,
		AllowZeroAmount: bid.IsUnitPriceContract,
	})
	if err != nil {
		return ds, model.Project{}, err
	}

	bids := append([]model.BidSchedule{}, ds.BidSchedules...)
	bids[idx].ProjectID = project.ID
	ds.BidSchedules = bids
	return ds, project, nil
}

func buildBid(in BidInput) (model.BidSchedule, error) {
	name, client := strings.TrimSpace(in.Name), strings.TrimSpace(in.Client)
	if name == "" {
		return model.BidSchedule{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if client == "" {
		return model.BidSchedule{}, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = model.BidStatusScheduled
	}
	if !status.Valid() {
		return model.BidSchedule{}, fmt.Errorf("%w: unknown bid status %q", ErrInvalidInput, status)
	}
	bidDate, err := NormalizeDate(in.BidDate)
	if err != nil {
		return model.BidSchedule{}, err
	}
	category := model.NormalizeCategory(strings.TrimSpace(in.Category))
	if category == "" {
		category = model.CategoryConstruction
	}

	bid := model.BidSchedule{
		Name:                name,
		Client:              client,
		Category:            category,
		BidDate:             bidDate,
		Status:              status,
		Notes:               strings.TrimSpace(in.Notes),
		IsUnitPriceContract: in.IsUnitPriceContract,
	}
	// The order amount only means something once the bid is awarded.
	if status.Awarded() {
		if err := checkOrderAmount(in.OrderAmount, in.IsUnitPriceContract); err != nil {
			return model.BidSchedule{}, err
		}
		amount := *in.OrderAmount
		bid.OrderAmount = &amount
	}
	return bid, nil
}

func checkOrderAmount(amount *int64, unitPrice bool) error {
	switch {
	case amount == nil:
		return fmt.Errorf("%w: order amount is required for awarded bids", ErrInvalidInput)
	case *amount < 0:
		return fmt.Errorf("%w: order amount must not be negative", ErrInvalidInput)
	case *amount == 0 && !unitPrice:
		return fmt.Errorf("%w: a zero order amount is only allowed for unit-price contracts", ErrInvalidInput)
	}
	return nil
}

func bidIndex(ds model.Dataset, id string) int {
	for i, b := range ds.BidSchedules {
		if b.ID == id {
			return i
		}
	}
	return -1
}
