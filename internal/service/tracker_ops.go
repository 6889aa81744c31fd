package service

import (
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/state"
)

func (t *Tracker) CreateProject(p model.Principal, in state.ProjectInput) (model.Project, error) {
	return mutate(t, p, "create_project", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.CreateProject(ds, in)
	})
}

func (t *Tracker) UpdateProject(p model.Principal, id string, patch state.ProjectPatch) (model.Project, error) {
	return mutate(t, p, "update_project", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.UpdateProject(ds, id, patch)
	})
}

func (t *Tracker) ArchiveProject(p model.Principal, id, year string) (model.Project, error) {
	return mutate(t, p, "archive_project", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.ArchiveProject(ds, id, year)
	})
}

func (t *Tracker) UnarchiveProject(p model.Principal, id string) (model.Project, error) {
	return mutate(t, p, "unarchive_project", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.UnarchiveProject(ds, id)
	})
}

func (t *Tracker) DeleteProject(p model.Principal, id string) (model.Project, error) {
	return mutate(t, p, "delete_project", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.DeleteProject(ds, id, t.now())
	})
}

func (t *Tracker) RestoreProject(p model.Principal, id string) (model.Project, error) {
	return mutate(t, p, "restore_project", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.RestoreProject(ds, id)
	})
}

func (t *Tracker) PurgeProject(p model.Principal, id string) error {
	return t.apply(p, "purge_project", func(ds model.Dataset) (model.Dataset, error) {
		return state.PurgeProject(ds, id)
	})
}

func (t *Tracker) SyncProgress(p model.Principal, id string) (model.Project, error) {
	return mutate(t, p, "sync_progress", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.SyncProgress(ds, id)
	})
}

func (t *Tracker) AddPayment(p model.Principal, projectID string, in state.PaymentInput) (model.Payment, error) {
	return mutate(t, p, "add_payment", func(ds model.Dataset) (model.Dataset, model.Payment, error) {
		return state.AddPayment(ds, projectID, in)
	})
}

func (t *Tracker) DeletePayment(p model.Principal, projectID, paymentID string) error {
	return t.apply(p, "delete_payment", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeletePayment(ds, projectID, paymentID)
	})
}

func (t *Tracker) AddChange(p model.Principal, projectID string, in state.ChangeInput) (model.ChangeOrder, error) {
	return mutate(t, p, "add_change", func(ds model.Dataset) (model.Dataset, model.ChangeOrder, error) {
		return state.AddChange(ds, projectID, in)
	})
}

func (t *Tracker) DeleteChange(p model.Principal, projectID, changeID string) error {
	return t.apply(p, "delete_change", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteChange(ds, projectID, changeID)
	})
}

func (t *Tracker) AddCost(p model.Principal, projectID string, in state.CostInput) (model.Cost, error) {
	return mutate(t, p, "add_cost", func(ds model.Dataset) (model.Dataset, model.Cost, error) {
		return state.AddCost(ds, projectID, in)
	})
}

func (t *Tracker) UpdateCost(p model.Principal, costID string, in state.CostInput) (model.Cost, error) {
	return mutate(t, p, "update_cost", func(ds model.Dataset) (model.Dataset, model.Cost, error) {
		return state.UpdateCost(ds, costID, in)
	})
}

func (t *Tracker) DeleteCost(p model.Principal, costID string) error {
	return t.apply(p, "delete_cost", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteCost(ds, costID)
	})
}

func (t *Tracker) AddQuantity(p model.Principal, projectID string, in state.QuantityInput) (model.Quantity, error) {
	return mutate(t, p, "add_quantity", func(ds model.Dataset) (model.Dataset, model.Quantity, error) {
		return state.AddQuantity(ds, projectID, in)
	})
}

func (t *Tracker) DeleteQuantity(p model.Principal, quantityID string) error {
	return t.apply(p, "delete_quantity", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteQuantity(ds, quantityID)
	})
}

func (t *Tracker) AddVehicle(p model.Principal, registration string) (model.Vehicle, error) {
	return mutate(t, p, "add_vehicle", func(ds model.Dataset) (model.Dataset, model.Vehicle, error) {
		return state.AddVehicle(ds, registration)
	})
}

func (t *Tracker) UpdateVehicle(p model.Principal, id, registration string) (model.Vehicle, error) {
	return mutate(t, p, "update_vehicle", func(ds model.Dataset) (model.Dataset, model.Vehicle, error) {
		return state.UpdateVehicle(ds, id, registration)
	})
}

func (t *Tracker) DeleteVehicle(p model.Principal, id string) error {
	return t.apply(p, "delete_vehicle", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteVehicle(ds, id)
	})
}

func (t *Tracker) AddProcessMaster(p model.Principal, in state.ProcessMasterInput) (model.ProcessMaster, error) {
	return mutate(t, p, "add_process_master", func(ds model.Dataset) (model.Dataset, model.ProcessMaster, error) {
		return state.AddProcessMaster(ds, in)
	})
}

func (t *Tracker) UpdateProcessMaster(p model.Principal, id string, in state.ProcessMasterInput) (model.ProcessMaster, error) {
	return mutate(t, p, "update_process_master", func(ds model.Dataset) (model.Dataset, model.ProcessMaster, error) {
		return state.UpdateProcessMaster(ds, id, in)
	})
}

func (t *Tracker) DeleteProcessMaster(p model.Principal, id string) error {
	return t.apply(p, "delete_process_master", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteProcessMaster(ds, id)
	})
}

func (t *Tracker) AddBid(p model.Principal, in state.BidInput) (model.BidSchedule, error) {
	return mutate(t, p, "add_bid", func(ds model.Dataset) (model.Dataset, model.BidSchedule, error) {
		return state.AddBid(ds, in)
	})
}

func (t *Tracker) UpdateBid(p model.Principal, id string, in state.BidInput) (model.BidSchedule, error) {
	return mutate(t, p, "update_bid", func(ds model.Dataset) (model.Dataset, model.BidSchedule, error) {
		return state.UpdateBid(ds, id, in)
	})
}

func (t *Tracker) DeleteBid(p model.Principal, id string) error {
	return t.apply(p, "delete_bid", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteBid(ds, id)
	})
}

func (t *Tracker) PromoteBid(p model.Principal, id string) (model.Project, error) {
	return mutate(t, p, "promote_bid", func(ds model.Dataset) (model.Dataset, model.Project, error) {
		return state.PromoteBid(ds, id)
	})
}

func (t *Tracker) AddProcess(p model.Principal, projectID, masterID string) (model.ProjectProcess, error) {
	return mutate(t, p, "add_process", func(ds model.Dataset) (model.Dataset, model.ProjectProcess, error) {
		return state.AddProcess(ds, projectID, masterID)
	})
}

func (t *Tracker) DeleteProcess(p model.Principal, projectID, processID string) error {
	return t.apply(p, "delete_process", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteProcess(ds, projectID, processID)
	})
}

func (t *Tracker) SetProcessStatus(p model.Principal, projectID, processID string, status model.ProcessStatus) error {
	return t.apply(p, "set_process_status", func(ds model.Dataset) (model.Dataset, error) {
		return state.SetProcessStatus(ds, projectID, processID, status)
	})
}

func (t *Tracker) AddSection(p model.Principal, projectID, processID, name string) (model.ProjectSection, error) {
	return mutate(t, p, "add_section", func(ds model.Dataset) (model.Dataset, model.ProjectSection, error) {
		return state.AddSection(ds, projectID, processID, name)
	})
}

func (t *Tracker) RenameSection(p model.Principal, projectID, processID, sectionID, name string) error {
	return t.apply(p, "rename_section", func(ds model.Dataset) (model.Dataset, error) {
		return state.RenameSection(ds, projectID, processID, sectionID, name)
	})
}

func (t *Tracker) DeleteSection(p model.Principal, projectID, processID, sectionID string) error {
	return t.apply(p, "delete_section", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteSection(ds, projectID, processID, sectionID)
	})
}

func (t *Tracker) AddSubtask(p model.Principal, projectID, processID, sectionID, name string) (model.ProjectSubtask, error) {
	return mutate(t, p, "add_subtask", func(ds model.Dataset) (model.Dataset, model.ProjectSubtask, error) {
		return state.AddSubtask(ds, projectID, processID, sectionID, name)
	})
}

func (t *Tracker) ToggleSubtask(p model.Principal, projectID, processID, sectionID, subtaskID string) error {
	return t.apply(p, "toggle_subtask", func(ds model.Dataset) (model.Dataset, error) {
		return state.ToggleSubtask(ds, projectID, processID, sectionID, subtaskID)
	})
}

func (t *Tracker) DeleteSubtask(p model.Principal, projectID, processID, sectionID, subtaskID string) error {
	return t.apply(p, "delete_subtask", func(ds model.Dataset) (model.Dataset, error) {
		return state.DeleteSubtask(ds, projectID, processID, sectionID, subtaskID)
	})
}
