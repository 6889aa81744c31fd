package state

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tokito/genka-kanri/internal/model"
)

type PaymentInput struct {
	Date   string
	Amount int64
	Note   string
}

type ChangeInput struct {
	Date        string
	Type        model.ChangeType
	Amount      int64
	Description string
}

// AddPayment records a payment and recomputes paidAmount from the list.
func AddPayment(ds model.Dataset, projectID string, in PaymentInput) (model.Dataset, model.Payment, error) {
	if in.Amount < 1 {
		return ds, model.Payment{}, fmt.Errorf("%w: payment amount must be at least 1", ErrInvalidInput)
	}
	date, err := NormalizeDate(in.Date)
	if err != nil {
		return ds, model.Payment{}, err
	}
	payment := model.Payment{
		ID:     uuid.NewString(),
		Date:   date,
		Amount: in.Amount,
		Note:   strings.TrimSpace(in.Note),
	}
	ds, _, err = withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		p.Payments = append(append([]model.Payment{}, p.Payments...), payment)
		p.PaidAmount = sumPayments(p.Payments)
		return p, nil
	})
	return ds, payment, err
}

func DeletePayment(ds model.Dataset, projectID, paymentID string) (model.Dataset, error) {
	ds, _, err := withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		payments := make([]model.Payment, 0, len(p.Payments))
		for _, payment := range p.Payments {
			if payment.ID != paymentID {
				payments = append(payments, payment)
			}
		}
		if len(payments) == len(p.Payments) {
			return p, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
		}
		p.Payments = payments
		p.PaidAmount = sumPayments(payments)
		return p, nil
	})
	return ds, err
}

// AddChange records a change order and refreshes the contract cache.
func AddChange(ds model.Dataset, projectID string, in ChangeInput) (model.Dataset, model.ChangeOrder, error) {
	if !in.Type.Valid() {
		return ds, model.ChangeOrder{}, fmt.Errorf("%w: unknown change type %q", ErrInvalidInput, in.Type)
	}
	if in.Amount < 1 {
		return ds, model.ChangeOrder{}, fmt.Errorf("%w: change amount must be at least 1", ErrInvalidInput)
	}
	date, err := NormalizeDate(in.Date)
	if err != nil {
		return ds, model.ChangeOrder{}, err
	}
	change := model.ChangeOrder{
		ID:          uuid.NewString(),
		Date:        date,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
	}
	ds, _, err = withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		p.Changes = append(append([]model.ChangeOrder{}, p.Changes...), change)
		return refreshContractAmount(p), nil
	})
	return ds, change, err
}

func DeleteChange(ds model.Dataset, projectID, changeID string) (model.Dataset, error) {
	ds, _, err := withProject(ds, projectID, func(p model.Project) (model.Project, error) {
		changes := make([]model.ChangeOrder, 0, len(p.Changes))
		for _, change := range p.Changes {
			if change.ID != changeID {
				changes = append(changes, change)
			}
		}
		if len(changes) == len(p.Changes) {
			return p, fmt.Errorf("%w: change %s", ErrNotFound, changeID)
		}
		p.Changes = changes
		return refreshContractAmount(p), nil
	})
	return ds, err
}

func sumPayments(payments []model.Payment) int64 {
	total := int64(0)
	for _, payment := range payments {
		total += payment.Amount
	}
	return total
}
