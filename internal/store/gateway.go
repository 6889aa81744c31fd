package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/numbering"
	"github.com/tokito/genka-kanri/internal/seed"
)

// DocumentStore is the storage contract: fetch by key, upsert by key.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*model.DataRecord, error)
	Upsert(ctx context.Context, id string, data []byte, updatedAt time.Time) error
}

// Gateway reads and writes the shared dataset as one document.
type Gateway struct {
	store      DocumentStore
	documentID string
	log        zerolog.Logger
	now        func() time.Time

	mu           sync.Mutex
	lastProjects []model.Project
	lastVehicles []model.Vehicle
}

func NewGateway(store DocumentStore, documentID string, log zerolog.Logger) *Gateway {
	return &Gateway{
		store:      store,
		documentID: documentID,
		log:        log.With().Str("component", "gateway").Str("document", documentID).Logger(),
		now:        time.Now,
	}
}

// Load returns the stored dataset, or the seeded baseline when nothing is
// stored yet. Store failures are returned so that callers never mistake an
// outage for an empty store and overwrite real data with the baseline.
func (g *Gateway) Load(ctx context.Context) (model.Dataset, error) {
	record, err := g.store.Get(ctx, g.documentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Dataset{}, fmt.Errorf("load document: %w", err)
	}

	var ds model.Dataset
	if record != nil && len(record.Data) > 0 {
		if err := json.Unmarshal(record.Data, &ds); err != nil {
			return model.Dataset{}, fmt.Errorf("decode document: %w", err)
		}
	}

	if ds.IsEmpty() {
		g.log.Info().Msg("document empty, serving seeded baseline")
		baseline := seed.Baseline()
		if len(ds.Vehicles) > 0 {
			baseline.Vehicles = ds.Vehicles
		}
		if len(ds.ProcessMasters) > 0 {
			baseline.ProcessMasters = ds.ProcessMasters
		}
		ds = baseline
	}

	ds = Normalize(ds)
	g.remember(ds)
	return ds, nil
}

// Normalize backfills management numbers, maps legacy category labels and
// refills empty catalogs. Nil collections become empty ones.
func Normalize(ds model.Dataset) model.Dataset {
	projects := make([]model.Project, len(ds.Projects))
	for i, p := range ds.Projects {
		p.Category = model.NormalizeCategory(p.Category)
		if p.Payments == nil {
			p.Payments = []model.Payment{}
		}
		if p.Changes == nil {
			p.Changes = []model.ChangeOrder{}
		}
		projects[i] = p
	}
	ds.Projects = numbering.EnsureManagementNumbers(projects)

	if len(ds.Vehicles) == 0 {
		ds.Vehicles = seed.Vehicles()
	}
	if len(ds.ProcessMasters) == 0 {
		ds.ProcessMasters = seed.ProcessMasters()
	}
	bids := make([]model.BidSchedule, len(ds.BidSchedules))
	for i, bid := range ds.BidSchedules {
		bid.Category = model.NormalizeCategory(bid.Category)
		bids[i] = bid
	}
	ds.BidSchedules = bids
	if ds.Costs == nil {
		ds.Costs = []model.Cost{}
	}
	if ds.Quantities == nil {
		ds.Quantities = []model.Quantity{}
	}
	return ds
}

// Save writes ds. Empty projects or vehicles are replaced by the last
// non-empty lists seen, so a bug upstream cannot wipe the store. Failures
// are logged and reported as false.
func (g *Gateway) Save(ctx context.Context, ds model.Dataset) bool {
	ds = g.sanitize(ds)

	data, err := json.Marshal(ds)
	if err != nil {
		g.log.Error().Err(err).Msg("encode document")
		return false
	}
	if err := g.store.Upsert(ctx, g.documentID, data, g.now().UTC()); err != nil {
		g.log.Error().Err(err).Msg("save document")
		return false
	}
	g.remember(ds)
	return true
}

func (g *Gateway) sanitize(ds model.Dataset) model.Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(ds.Projects) == 0 && len(g.lastProjects) > 0 {
		g.log.Warn().Int("kept", len(g.lastProjects)).Msg("refusing to save empty project list")
		ds.Projects = g.lastProjects
	}
	if len(ds.Vehicles) == 0 {
		if len(g.lastVehicles) > 0 {
			ds.Vehicles = g.lastVehicles
		} else {
			ds.Vehicles = seed.Vehicles()
		}
		g.log.Warn().Int("kept", len(ds.Vehicles)).Msg("refusing to save empty vehicle list")
	}
	return ds
}

func (g *Gateway) remember(ds model.Dataset) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(ds.Projects) > 0 {
		g.lastProjects = ds.Projects
	}
	if len(ds.Vehicles) > 0 {
		g.lastVehicles = ds.Vehicles
	}
}
