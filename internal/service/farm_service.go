package service

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/paddock-backend-go/internal/annotation"
	"github.com/jengzang/paddock-backend-go/internal/heatmap"
	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/session"
	"github.com/jengzang/paddock-backend-go/internal/spatial"
)

// StateStore persists the session between restarts
type StateStore interface {
	Save(models.PersistedState) error
	Load() (models.PersistedState, error)
	Clear() error
}

// Snapshot is the read model of the session
type Snapshot struct {
	AppState       models.AppState     `json:"appState"`
	MenuMode       models.MenuMode     `json:"secondaryMenuMode"`
	SelectedFarmID string              `json:"selectedFarmId"`
	Draft          []models.Coordinate `json:"draft"`
	FarmCount      int                 `json:"farmCount"`
	PaddockCount   int                 `json:"paddockCount"`
	NextStates     []models.AppState   `json:"nextStates"`
}

// Validation holds both containment verdicts for a candidate paddock
type Validation struct {
	Within       bool `json:"within"`
	StrictWithin bool `json:"strictWithin"`
}

// FarmService owns the session and serializes access to it
type FarmService struct {
	mu      sync.Mutex
	store   StateStore
	session *session.Session
	rng     annotation.RandomSource
	heatmap *heatmap.Generator
	now     func() time.Time
	newID   session.IDFunc
}

// Option configures a FarmService
type Option func(*FarmService)

// WithRandom sets the source used for mock livestock and heatmap noise
func WithRandom(rng annotation.RandomSource) Option {
	return func(s *FarmService) { s.rng = rng }
}

// WithClock sets the time source for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *FarmService) { s.now = now }
}

// WithIDs sets the feature id generator
func WithIDs(newID session.IDFunc) Option {
	return func(s *FarmService) { s.newID = newID }
}

// NewFarmService restores the stored session and generates livestock for its paddocks
func NewFarmService(store StateStore, opts ...Option) (*FarmService, error) {
	s := &FarmService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	s.heatmap = heatmap.New(heatmap.WithRandom(s.rng))

	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	s.session = session.Restore(state, s.newID)
	s.regenerateLivestock()

	log.Printf("[FarmService] Restored %d features in state %s", len(state.Collection.Features), s.session.State)
	return s, nil
}

func (s *FarmService) persist() error {
	if err := s.store.Save(s.session.Persisted()); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

func (s *FarmService) regenerateLivestock() {
	s.session.Records = annotation.MockLivestock(s.session.Collection, s.rng, s.now())
}

// Snapshot returns the current session state
func (s *FarmService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *FarmService) snapshot() Snapshot {
	draft := make([]models.Coordinate, len(s.session.Draft))
	copy(draft, s.session.Draft)
	return Snapshot{
		AppState:       s.session.State,
		MenuMode:       s.session.MenuMode,
		SelectedFarmID: s.session.SelectedFarmID,
		Draft:          draft,
		FarmCount:      len(annotation.FarmBoundaries(s.session.Collection)),
		PaddockCount:   len(annotation.Paddocks(s.session.Collection)),
		NextStates:     session.NextStates(s.session.State),
	}
}

// Transition moves the session to another state
func (s *FarmService) Transition(to models.AppState) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Transition(to); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), s.persist()
}

// Reset clears all shapes and records
func (s *FarmService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Reset()
	log.Printf("[FarmService] Session reset")
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return s.persist()
}

// AddVertex appends to the open draft. Drafts are not persisted.
func (s *FarmService) AddVertex(c models.Coordinate) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.AddVertex(c); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// UndoVertex drops the last draft vertex
func (s *FarmService) UndoVertex() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.UndoVertex(); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// CompleteFarm turns the draft into a farm boundary
func (s *FarmService) CompleteFarm(name string) (*models.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	farm, err := s.session.CompleteFarm(name)
	if err != nil {
		return nil, err
	}
	log.Printf("[FarmService] Created farm %s (%s)", farm.ID, farm.Name)
	return farm, s.persist()
}

// CompletePaddock turns the draft into a paddock of the selected farm
func (s *FarmService) CompletePaddock(details models.PaddockDetails) (*models.Paddock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paddock, err := s.session.CompletePaddock(details)
	if err != nil {
		return nil, err
	}
	s.regenerateLivestock()
	log.Printf("[FarmService] Created paddock %s in farm %s", paddock.ID, paddock.ParentID)
	return paddock, s.persist()
}

// UpdatePaddock replaces a paddock's metadata
func (s *FarmService) UpdatePaddock(id string, details models.PaddockDetails) (*models.Paddock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paddock, err := s.session.UpdatePaddock(id, details)
	if err != nil {
		return nil, err
	}
	return paddock, s.persist()
}

// DeleteFeature removes a farm with its paddocks, or a single paddock
func (s *FarmService) DeleteFeature(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := s.session.DeleteFeature(id)
	if err != nil {
		return err
	}
	if changed {
		s.regenerateLivestock()
	}
	log.Printf("[FarmService] Deleted feature %s", id)
	return s.persist()
}

// SelectFarm makes a farm the target for new paddocks
func (s *FarmService) SelectFarm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.SelectFarm(id); err != nil {
		return err
	}
	return s.persist()
}

// Features returns the full polygon collection
func (s *FarmService) Features() models.PolygonCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Collection
}

// Farms returns every farm boundary in insertion order
func (s *FarmService) Farms() []*models.Farm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return annotation.FarmBoundaries(s.session.Collection)
}

// PaddocksForFarm returns the paddocks of one farm
func (s *FarmService) PaddocksForFarm(farmID string) ([]*models.Paddock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.session.Collection.Find(farmID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrFeatureNotFound, farmID)
	}
	if f.Kind() != models.KindFarm {
		return nil, fmt.Errorf("%w: %s", session.ErrNotAFarm, farmID)
	}
	return annotation.PaddocksForFarm(s.session.Collection, farmID), nil
}

// Livestock returns the current livestock records
func (s *FarmService) Livestock() []models.LivestockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LivestockRecord(nil), s.session.Records...)
}

// RegenerateLivestock replaces every record with fresh mock data
func (s *FarmService) RegenerateLivestock() []models.LivestockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regenerateLivestock()
	return append([]models.LivestockRecord(nil), s.session.Records...)
}

// PolygonCollection renders farms and paddocks with derived measurements
func (s *FarmService) PolygonCollection() models.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return annotation.PolygonFeatures(s.session.Collection)
}

// LabelCollection renders one label point per paddock
func (s *FarmService) LabelCollection() models.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return annotation.LabelFeatures(s.session.Collection)
}

// LivestockCollection renders one livestock annotation per paddock
func (s *FarmService) LivestockCollection() models.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return annotation.AnnotationFeatures(annotation.LivestockAnnotations(s.session.Collection, s.session.Records))
}

// HeatmapCollection renders a fresh density field over the first farm
func (s *FarmService) HeatmapCollection() models.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return heatmap.Collection(s.heatmap.Generate(s.session.Collection, s.session.Records))
}

// ValidatePaddock checks a candidate paddock ring against a farm ring
func ValidatePaddock(paddock, farm models.Ring) (Validation, error) {
	if len(paddock) < 3 || len(farm) < 3 {
		return Validation{}, session.ErrTooFewVertices
	}
	p, f := closed(paddock), closed(farm)
	return Validation{
		Within:       spatial.PaddockWithinFarm(p, f),
		StrictWithin: spatial.PaddockWithinFarmStrict(p, f),
	}, nil
}

func closed(r models.Ring) models.Ring {
	if r[0] == r[len(r)-1] {
		return r
	}
	return spatial.ClosedRing(r)
}
