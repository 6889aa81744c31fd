package state

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/tokito/genka-kanri/internal/model"
)

const defaultProcessIcon = "📌"

var defaultSubsSeparator = regexp.MustCompile(`[、,\n]`)

// ParseDefaultSubs splits a template list typed as free text. Entries may be
// separated by 、 , or newlines; blanks are dropped.
func ParseDefaultSubs(raw string) []string {
	subs := make([]string, 0)
	for _, part := range defaultSubsSeparator.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			subs = append(subs, part)
		}
	}
	return subs
}

func AddVehicle(ds model.Dataset, registration string) (model.Dataset, model.Vehicle, error) {
	registration = strings.TrimSpace(registration)
	if registration == "" {
		return ds, model.Vehicle{}, fmt.Errorf("%w: registration is required", ErrInvalidInput)
	}
	v := model.Vehicle{ID: uuid.NewString(), Registration: registration}
	ds.Vehicles = append(append([]model.Vehicle{}, ds.Vehicles...), v)
	return ds, v, nil
}

func UpdateVehicle(ds model.Dataset, id, registration string) (model.Dataset, model.Vehicle, error) {
	registration = strings.TrimSpace(registration)
	if registration == "" {
		return ds, model.Vehicle{}, fmt.Errorf("%w: registration is required", ErrInvalidInput)
	}
	for i, v := range ds.Vehicles {
		if v.ID == id {
			vehicles := append([]model.Vehicle{}, ds.Vehicles...)
			vehicles[i].Registration = registration
			ds.Vehicles = vehicles
			return ds, vehicles[i], nil
		}
	}
	return ds, model.Vehicle{}, fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
}

// DeleteVehicle leaves quantity rows alone; they keep the stored
// description.
func DeleteVehicle(ds model.Dataset, id string) (model.Dataset, error) {
	vehicles := make([]model.Vehicle, 0, len(ds.Vehicles))
	for _, v := range ds.Vehicles {
		if v.ID != id {
			vehicles = append(vehicles, v)
		}
	}
	if len(vehicles) == len(ds.Vehicles) {
		return ds, fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
	}
	ds.Vehicles = vehicles
	return ds, nil
}

type ProcessMasterInput struct {
	Name        string
	Icon        string
	DefaultSubs string
}

func AddProcessMaster(ds model.Dataset, in ProcessMasterInput) (model.Dataset, model.ProcessMaster, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ds, model.ProcessMaster{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	maxOrder := 0
	for _, m := range ds.ProcessMasters {
		if m.SortOrder > maxOrder {
			maxOrder = m.SortOrder
		}
	}
	master := model.ProcessMaster{
		ID:          "pm-" + uuid.NewString(),
		Name:        name,
		Icon:        iconOrDefault(in.Icon),
		DefaultSubs: ParseDefaultSubs(in.DefaultSubs),
		SortOrder:   maxOrder + 1,
	}
	ds.ProcessMasters = append(append([]model.ProcessMaster{}, ds.ProcessMasters...), master)
	return ds, master, nil
}

func UpdateProcessMaster(ds model.Dataset, id string, in ProcessMasterInput) (model.Dataset, model.ProcessMaster, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ds, model.ProcessMaster{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	for i, m := range ds.ProcessMasters {
		if m.ID != id {
			continue
		}
		masters := append([]model.ProcessMaster{}, ds.ProcessMasters...)
		masters[i].Name = name
		masters[i].Icon = iconOrDefault(in.Icon)
		masters[i].DefaultSubs = ParseDefaultSubs(in.DefaultSubs)
		ds.ProcessMasters = masters
		return ds, masters[i], nil
	}
	return ds, model.ProcessMaster{}, fmt.Errorf("%w: process master %s", ErrNotFound, id)
}

func DeleteProcessMaster(ds model.Dataset, id string) (model.Dataset, error) {
	masters := make([]model.ProcessMaster, 0, len(ds.ProcessMasters))
	for _, m := range ds.ProcessMasters {
		if m.ID != id {
			masters = append(masters, m)
		}
	}
	if len(masters) == len(ds.ProcessMasters) {
		return ds, fmt.Errorf("%w: process master %s", ErrNotFound, id)
	}
	ds.ProcessMasters = masters
	return ds, nil
}

func findProcessMaster(ds model.Dataset, id string) (model.ProcessMaster, bool) {
	for _, m := range ds.ProcessMasters {
		if m.ID == id {
			return m, true
		}
	}
	return model.ProcessMaster{}, false
}

func iconOrDefault(icon string) string {
	if icon = strings.TrimSpace(icon); icon != "" {
		return icon
	}
	return defaultProcessIcon
}
