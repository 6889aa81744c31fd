package state

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tokito/genka-kanri/internal/metrics"
	"github.com/tokito/genka-kanri/internal/model"
)

// AddProcess appends an empty process for a catalog entry.
func AddProcess(ds model.Dataset, projectID, masterID string) (model.Dataset, model.ProjectProcess, error) {
	if _, ok := findProcessMaster(ds, masterID); !ok {
		return ds, model.ProjectProcess{}, fmt.Errorf("%w: process master %s", ErrNotFound, masterID)
	}
	var added model.ProjectProcess
	ds, _, err := withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		order := 0
		for _, proc := range p.ProjectProcesses {
			if proc.SortOrder >= order {
				order = proc.SortOrder + 1
			}
		}
		added = model.ProjectProcess{
			ID:              uuid.NewString(),
			ProcessMasterID: masterID,
			Status:          model.ProcessStatusPending,
			SortOrder:       order,
			Sections:        []model.ProjectSection{},
		}
		p.ProjectProcesses = append(append([]model.ProjectProcess{}, p.ProjectProcesses...), added)
		return p, nil
	})
	return ds, added, err
}

func DeleteProcess(ds model.Dataset, projectID, processID string) (model.Dataset, error) {
	ds, _, err := withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		processes := make([]model.ProjectProcess, 0, len(p.ProjectProcesses))
		for _, proc := range p.ProjectProcesses {
			if proc.ID != processID {
				processes = append(processes, proc)
			}
		}
		if len(processes) == len(p.ProjectProcesses) {
			return p, fmt.Errorf("%w: process %s", ErrNotFound, processID)
		}
		p.ProjectProcesses = processes
		return p, nil
	})
	return ds, err
}

func SetProcessStatus(ds model.Dataset, projectID, processID string, status model.ProcessStatus) (model.Dataset, error) {
	if !status.Valid() {
		return ds, fmt.Errorf("%w: unknown process status %q", ErrInvalidInput, status)
	}
	return withProcess(ds, projectID, processID, func(proc model.ProjectProcess) (model.ProjectProcess, error) {
		proc.Status = status
		return proc, nil
	})
}

// AddSection seeds the new section with the catalog's default subtasks.
func AddSection(ds model.Dataset, projectID, processID, name string) (model.Dataset, model.ProjectSection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ds, model.ProjectSection{}, fmt.Errorf("%w: section name is required", ErrInvalidInput)
	}
	var added model.ProjectSection
	ds, err := withProcess(ds, projectID, processID, func(proc model.ProjectProcess) (model.ProjectProcess, error) {
		var defaults []string
		if master, ok := findProcessMaster(ds, proc.ProcessMasterID); ok {
			defaults = master.DefaultSubs
		}
		subtasks := make([]model.ProjectSubtask, len(defaults))
		for i, sub := range defaults {
			subtasks[i] = model.ProjectSubtask{ID: uuid.NewString(), Name: sub, SortOrder: i}
		}
		added = model.ProjectSection{
			ID:        uuid.NewString(),
			Name:      name,
			SortOrder: len(proc.Sections),
			Subtasks:  subtasks,
		}
		proc.Sections = append(append([]model.ProjectSection{}, proc.Sections...), added)
		return proc, nil
	})
	return ds, added, err
}

func RenameSection(ds model.Dataset, projectID, processID, sectionID, name string) (model.Dataset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ds, fmt.Errorf("%w: section name is required", ErrInvalidInput)
	}
	return withSection(ds, projectID, processID, sectionID, func(sec model.ProjectSection) (model.ProjectSection, error) {
		sec.Name = name
		return sec, nil
	})
}

func DeleteSection(ds model.Dataset, projectID, processID, sectionID string) (model.Dataset, error) {
	return withProcess(ds, projectID, processID, func(proc model.ProjectProcess) (model.ProjectProcess, error) {
		sections := make([]model.ProjectSection, 0, len(proc.Sections))
		for _, sec := range proc.Sections {
			if sec.ID != sectionID {
				sections = append(sections, sec)
			}
		}
		if len(sections) == len(proc.Sections) {
			return proc, fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
		}
		proc.Sections = sections
		return proc, nil
	})
}

func AddSubtask(ds model.Dataset, projectID, processID, sectionID, name string) (model.Dataset, model.ProjectSubtask, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ds, model.ProjectSubtask{}, fmt.Errorf("%w: subtask name is required", ErrInvalidInput)
	}
	var added model.ProjectSubtask
	ds, err := withSection(ds, projectID, processID, sectionID, func(sec model.ProjectSection) (model.ProjectSection, error) {
		added = model.ProjectSubtask{ID: uuid.NewString(), Name: name, SortOrder: len(sec.Subtasks)}
		sec.Subtasks = append(append([]model.ProjectSubtask{}, sec.Subtasks...), added)
		return sec, nil
	})
	return ds, added, err
}

func ToggleSubtask(ds model.Dataset, projectID, processID, sectionID, subtaskID string) (model.Dataset, error) {
	return withSection(ds, projectID, processID, sectionID, func(sec model.ProjectSection) (model.ProjectSection, error) {
		for i, sub := range sec.Subtasks {
			if sub.ID == subtaskID {
				subtasks := append([]model.ProjectSubtask{}, sec.Subtasks...)
				subtasks[i].Done = !sub.Done
				sec.Subtasks = subtasks
				return sec, nil
			}
		}
		return sec, fmt.Errorf("%w: subtask %s", ErrNotFound, subtaskID)
	})
}

func DeleteSubtask(ds model.Dataset, projectID, processID, sectionID, subtaskID string) (model.Dataset, error) {
	return withSection(ds, projectID, processID, sectionID, func(sec model.ProjectSection) (model.ProjectSection, error) {
		subtasks := make([]model.ProjectSubtask, 0, len(sec.Subtasks))
		for _, sub := range sec.Subtasks {
			if sub.ID != subtaskID {
				subtasks = append(subtasks, sub)
			}
		}
		if len(subtasks) == len(sec.Subtasks) {
			return sec, fmt.Errorf("%w: subtask %s", ErrNotFound, subtaskID)
		}
		sec.Subtasks = subtasks
		return sec, nil
	})
}

// ReplaceProcesses swaps the whole checklist, as done after a design-book
// import.
func ReplaceProcesses(ds model.Dataset, projectID string, processes []model.ProjectProcess) (model.Dataset, model.Project, error) {
	return withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		p.ProjectProcesses = append([]model.ProjectProcess{}, processes...)
		return p, nil
	})
}

// SyncProgress copies the checklist completion into the display progress.
func SyncProgress(ds model.Dataset, projectID string) (model.Dataset, model.Project, error) {
	return withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		p.Progress = int(metrics.ProcessCompletion(p.ProjectProcesses).Percent)
		return p, nil
	})
}

func withProcess(ds model.Dataset, projectID, processID string, fn func(model.ProjectProcess) (model.ProjectProcess, error)) (model.Dataset, error) {
	ds, _, err := withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		for i, proc := range p.ProjectProcesses {
			if proc.ID != processID {
				continue
			}
			updated, err := fn(proc)
			if err != nil {
				return p, err
			}
			processes := append([]model.ProjectProcess{}, p.ProjectProcesses...)
			processes[i] = updated
			p.ProjectProcesses = processes
			return p, nil
		}
		return p, fmt.Errorf("%w: process %s", ErrNotFound, processID)
	})
	return ds, err
}

func withSection(ds model.Dataset, projectID, processID, sectionID string, fn func(model.ProjectSection) (model.ProjectSection, error)) (model.Dataset, error) {
	return withProcess(ds, projectID, processID, func(proc model.ProjectProcess) (model.ProjectProcess, error) {
		for i, sec := range proc.Sections {
			if sec.ID != sectionID {
				continue
			}
			updated, err := fn(sec)
			if err != nil {
				return proc, err
			}
			sections := append([]model.ProjectSection{}, proc.Sections...)
			sections[i] = updated
			proc.Sections = sections
			return proc, nil
		}
		return proc, fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
	})
}
