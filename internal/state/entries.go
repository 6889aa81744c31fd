package state

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tokito/genka-kanri/internal/model"
)

type CostInput struct {
	Category    model.CostCategory
	Description string
	Amount      int64
	Date        string
	Vendor      string
}

type QuantityInput struct {
	Category    model.QuantityCategory
	Description string
	Quantity    float64
	Date        string
	Note        string
	VehicleID   string
}

func AddCost(ds model.Dataset, projectID string, in CostInput) (model.Dataset, model.Cost, error) {
	if projectIndex(ds, projectID) < 0 {
		return ds, model.Cost{}, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	cost, err := buildCost(in)
	if err != nil {
		return ds, model.Cost{}, err
	}
	cost.ID = uuid.NewString()
	cost.ProjectID = projectID

	ds.Costs = append(append([]model.Cost{}, ds.Costs...), cost)
	return ds, cost, nil
}

// UpdateCost replaces every editable field of the cost.
func UpdateCost(ds model.Dataset, costID string, in CostInput) (model.Dataset, model.Cost, error) {
	for i, existing := range ds.Costs {
		if existing.ID != costID {
			continue
		}
		cost, err := buildCost(in)
		if err != nil {
			return ds, model.Cost{}, err
		}
		cost.ID = existing.ID
		cost.ProjectID = existing.ProjectID

		costs := append([]model.Cost{}, ds.Costs...)
		costs[i] = cost
		ds.Costs = costs
		return ds, cost, nil
	}
	return ds, model.Cost{}, fmt.Errorf("%w: cost %s", ErrNotFound, costID)
}

func DeleteCost(ds model.Dataset, costID string) (model.Dataset, error) {
	costs := make([]model.Cost, 0, len(ds.Costs))
	for _, c := range ds.Costs {
		if c.ID != costID {
			costs = append(costs, c)
		}
	}
	if len(costs) == len(ds.Costs) {
		return ds, fmt.Errorf("%w: cost %s", ErrNotFound, costID)
	}
	ds.Costs = costs
	return ds, nil
}

func buildCost(in CostInput) (model.Cost, error) {
	if !in.Category.Valid() {
		return model.Cost{}, fmt.Errorf("%w: unknown cost category %q", ErrInvalidInput, in.Category)
	}
	if in.Amount < 1 {
		return model.Cost{}, fmt.Errorf("%w: cost amount must be at least 1", ErrInvalidInput)
	}
	date, err := NormalizeDate(in.Date)
	if err != nil {
		return model.Cost{}, err
	}
	return model.Cost{
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Date:        date,
		Vendor:      strings.TrimSpace(in.Vendor),
	}, nil
}

// AddQuantity records labor or vehicle usage. Vehicle rows must reference a
// catalog vehicle and store its registration in the description, so the row
// stays readable after the vehicle is removed from the catalog.
func AddQuantity(ds model.Dataset, projectID string, in QuantityInput) (model.Dataset, model.Quantity, error) {
	if projectIndex(ds, projectID) < 0 {
		return ds, model.Quantity{}, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if !in.Category.Valid() {
		return ds, model.Quantity{}, fmt.Errorf("%w: unknown quantity category %q", ErrInvalidInput, in.Category)
	}
	if in.Quantity <= 0 {
		return ds, model.Quantity{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	date, err := NormalizeDate(in.Date)
	if err != nil {
		return ds, model.Quantity{}, err
	}

	description := strings.TrimSpace(in.Description)
	q := model.Quantity{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Category:  in.Category,
		Quantity:  in.Quantity,
		Date:      date,
		Note:      strings.TrimSpace(in.Note),
	}
	switch in.Category {
	case model.QuantityCategoryVehicle:
		vehicle, ok := findVehicle(ds, in.VehicleID)
		if !ok {
			return ds, model.Quantity{}, fmt.Errorf("%w: vehicle %q is not in the catalog", ErrInvalidInput, in.VehicleID)
		}
		q.VehicleID = vehicle.ID
		q.Description = vehicle.Registration
		if description != "" {
			q.Description = fmt.Sprintf("%s（%s）", vehicle.Registration, description)
		}
	default:
		if description == "" {
			return ds, model.Quantity{}, fmt.Errorf("%w: description is required for labor", ErrInvalidInput)
		}
		q.Description = description
	}

	ds.Quantities = append(append([]model.Quantity{}, ds.Quantities...), q)
	return ds, q, nil
}

func DeleteQuantity(ds model.Dataset, quantityID string) (model.Dataset, error) {
	quantities := make([]model.Quantity, 0, len(ds.Quantities))
	for _, q := range ds.Quantities {
		if q.ID != quantityID {
			quantities = append(quantities, q)
		}
	}
	if len(quantities) == len(ds.Quantities) {
		return ds, fmt.Errorf("%w: quantity %s", ErrNotFound, quantityID)
	}
	ds.Quantities = quantities
	return ds, nil
}

func findVehicle(ds model.Dataset, id string) (model.Vehicle, bool) {
	if id == "" {
		return model.Vehicle{}, false
	}
	for _, v := range ds.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return model.Vehicle{}, false
}
