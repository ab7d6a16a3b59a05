// Package session holds the screen-level drawing state machine. It performs no
// I/O and no locking; callers serialize access.
package session

import (
	"errors"
	"fmt"

	"github.com/jengzang/paddock-backend-go/internal/annotation"
	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/spatial"
)

var (
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrUnknownState       = errors.New("unknown state")
	ErrNotDrawing         = errors.New("not in a drawing state")
	ErrTooFewVertices     = errors.New("at least 3 vertices are required")
	ErrNoFarmSelected     = errors.New("no farm selected")
	ErrPaddockOutsideFarm = errors.New("paddock is not within the farm boundary")
	ErrFeatureNotFound    = errors.New("feature not found")
	ErrNotAPaddock        = errors.New("feature is not a paddock")
	ErrNotAFarm           = errors.New("feature is not a farm")
	ErrEmptyName          = errors.New("name is required")
)

const minVertices = 3

var transitions = map[models.AppState][]models.AppState{
	models.StateInitial:        {models.StateDrawingFarm},
	models.StateDrawingFarm:    {models.StatePaddockMode, models.StateInitial},
	models.StatePaddockMode:    {models.StateDrawingPaddock, models.StateLivestockMode, models.StateHeatmapMode, models.StateEditing, models.StateInitial},
	models.StateDrawingPaddock: {models.StatePaddockMode, models.StateEditing},
	models.StateLivestockMode:  {models.StatePaddockMode, models.StateHeatmapMode, models.StateEditing},
	models.StateHeatmapMode:    {models.StatePaddockMode, models.StateLivestockMode, models.StateEditing},
	models.StateEditing:        {models.StatePaddockMode, models.StateLivestockMode, models.StateHeatmapMode, models.StateDrawingPaddock},
}

// CanTransition reports whether from -> to is an edge of the state graph
func CanTransition(from, to models.AppState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStates lists the states reachable from from
func NextStates(from models.AppState) []models.AppState {
	return append([]models.AppState(nil), transitions[from]...)
}

// IDFunc mints ids for new features
type IDFunc func() string

// Session is the in-memory screen state
type Session struct {
	State          models.AppState
	MenuMode       models.MenuMode
	Collection     models.PolygonCollection
	SelectedFarmID string
	Draft          []models.Coordinate
	Records        []models.LivestockRecord

	newID IDFunc
}

// New creates a session in the initial state
func New(newID IDFunc) *Session {
	return &Session{
		State:    models.StateInitial,
		MenuMode: models.MenuNone,
		newID:    newID,
	}
}

// Restore rebuilds a session from persisted state. Unknown state tags fall back to initial
// and a missing selected farm falls back to the first farm.
func Restore(p models.PersistedState, newID IDFunc) *Session {
	s := New(newID)
	s.Collection = p.Collection
	s.SelectedFarmID = p.SelectedFarmID
	if p.AppState.Valid() {
		s.State = p.AppState
	}
	switch p.MenuMode {
	case models.MenuLivestock, models.MenuHeatmap:
		s.MenuMode = p.MenuMode
	}
	// an interrupted drawing cannot be resumed, its vertices were never stored
	switch s.State {
	case models.StateDrawingFarm:
		s.State = models.StateInitial
	case models.StateDrawingPaddock:
		s.State = models.StatePaddockMode
	}
	if _, ok := s.selectedFarm(); !ok {
		s.selectFirstFarm()
	}
	return s
}

// Persisted returns the part of the session that is stored
func (s *Session) Persisted() models.PersistedState {
	return models.PersistedState{
		Collection:     s.Collection,
		SelectedFarmID: s.SelectedFarmID,
		AppState:       s.State,
		MenuMode:       s.MenuMode,
	}
}

// Transition moves to another state along the state graph
func (s *Session) Transition(to models.AppState) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownState, to)
	}
	if !CanTransition(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
	}
	s.enter(to)
	return nil
}

func (s *Session) enter(to models.AppState) {
	if isDrawing(s.State) || isDrawing(to) {
		s.Draft = nil
	}
	s.State = to

	switch to {
	case models.StateLivestockMode:
		s.MenuMode = models.MenuLivestock
	case models.StateHeatmapMode:
		s.MenuMode = models.MenuHeatmap
	case models.StatePaddockMode, models.StateInitial:
		s.MenuMode = models.MenuNone
	}
}

func isDrawing(st models.AppState) bool {
	return st == models.StateDrawingFarm || st == models.StateDrawingPaddock
}

// AddVertex appends a vertex to the open draft ring
func (s *Session) AddVertex(c models.Coordinate) error {
	if !isDrawing(s.State) {
		return ErrNotDrawing
	}
	s.Draft = append(s.Draft, c)
	return nil
}

// UndoVertex removes the most recent draft vertex. Undoing an empty draft is a no-op.
func (s *Session) UndoVertex() error {
	if !isDrawing(s.State) {
		return ErrNotDrawing
	}
	if len(s.Draft) > 0 {
		s.Draft = s.Draft[:len(s.Draft)-1]
	}
	return nil
}

// CompleteFarm closes the draft into a new farm, selects it and enters paddock mode
func (s *Session) CompleteFarm(name string) (*models.Farm, error) {
	if s.State != models.StateDrawingFarm {
		return nil, ErrNotDrawing
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(s.Draft) < minVertices {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewVertices, len(s.Draft))
	}

	farm := &models.Farm{
		ID:   s.newID(),
		Name: name,
		Ring: spatial.ClosedRing(s.Draft),
	}
	s.Collection = s.Collection.Append(farm)
	s.SelectedFarmID = farm.ID
	s.enter(models.StatePaddockMode)
	return farm, nil
}

// CompletePaddock closes the draft into a paddock of the selected farm.
// The paddock must pass the vertex containment check against the farm boundary.
func (s *Session) CompletePaddock(details models.PaddockDetails) (*models.Paddock, error) {
	if s.State != models.StateDrawingPaddock {
		return nil, ErrNotDrawing
	}
	if details.Name == "" {
		return nil, ErrEmptyName
	}
	farm, ok := s.selectedFarm()
	if !ok {
		return nil, ErrNoFarmSelected
	}
	if len(s.Draft) < minVertices {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewVertices, len(s.Draft))
	}

	ring := spatial.ClosedRing(s.Draft)
	if !spatial.PaddockWithinFarm(ring, farm.Ring) {
		return nil, ErrPaddockOutsideFarm
	}

	paddock := &models.Paddock{
		ID:             s.newID(),
		ParentID:       farm.ID,
		Ring:           ring,
		PaddockDetails: details,
	}
	s.Collection = s.Collection.Append(paddock)
	s.enter(models.StatePaddockMode)
	return paddock, nil
}

// UpdatePaddock replaces a paddock's metadata. The ring is kept.
func (s *Session) UpdatePaddock(id string, details models.PaddockDetails) (*models.Paddock, error) {
	if details.Name == "" {
		return nil, ErrEmptyName
	}
	f, ok := s.Collection.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	old, ok := f.(*models.Paddock)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAPaddock, id)
	}

	updated := &models.Paddock{ID: old.ID, ParentID: old.ParentID, Ring: old.Ring, PaddockDetails: details}
	features := make([]models.Feature, len(s.Collection.Features))
	for i, existing := range s.Collection.Features {
		if existing.FeatureID() == id {
			features[i] = updated
		} else {
			features[i] = existing
		}
	}
	s.Collection = models.PolygonCollection{Features: features}
	return updated, nil
}

// DeleteFeature removes a feature. Deleting a farm also removes its paddocks.
// It reports whether the paddock set changed.
func (s *Session) DeleteFeature(id string) (bool, error) {
	f, ok := s.Collection.Find(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}

	before := len(annotation.Paddocks(s.Collection))
	if f.Kind() == models.KindFarm {
		s.Collection = s.Collection.Filter(func(x models.Feature) bool {
			if x.FeatureID() == id {
				return false
			}
			p, isPaddock := x.(*models.Paddock)
			return !isPaddock || p.ParentID != id
		})
		if s.SelectedFarmID == id {
			s.selectFirstFarm()
		}
	} else {
		s.Collection = s.Collection.Filter(func(x models.Feature) bool { return x.FeatureID() != id })
	}

	if len(annotation.FarmBoundaries(s.Collection)) == 0 && s.State != models.StateDrawingFarm {
		s.enter(models.StateInitial)
	}
	return len(annotation.Paddocks(s.Collection)) != before, nil
}

// SelectFarm makes the given farm the target of new paddocks
func (s *Session) SelectFarm(id string) error {
	f, ok := s.Collection.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	if f.Kind() != models.KindFarm {
		return fmt.Errorf("%w: %s", ErrNotAFarm, id)
	}
	s.SelectedFarmID = id
	return nil
}

// Reset clears everything and returns to the initial state
func (s *Session) Reset() {
	s.Collection = models.PolygonCollection{}
	s.SelectedFarmID = ""
	s.Records = nil
	s.enter(models.StateInitial)
}

// selectFirstFarm selects the first farm in collection order, or none
func (s *Session) selectFirstFarm() {
	s.SelectedFarmID = ""
	if farms := annotation.FarmBoundaries(s.Collection); len(farms) > 0 {
		s.SelectedFarmID = farms[0].ID
	}
}

func (s *Session) selectedFarm() (*models.Farm, bool) {
	if s.SelectedFarmID == "" {
		return nil, false
	}
	f, ok := s.Collection.Find(s.SelectedFarmID)
	if !ok {
		return nil, false
	}
	farm, ok := f.(*models.Farm)
	return farm, ok
}
