package models

// AppState is the screen-level drawing/navigation state tag
type AppState string

const (
	StateInitial        AppState = "initial"
	StateDrawingFarm    AppState = "drawing-farm"
	StatePaddockMode    AppState = "paddock-mode"
	StateDrawingPaddock AppState = "drawing-paddock"
	StateLivestockMode  AppState = "livestock-mode"
	StateHeatmapMode    AppState = "heatmap-mode"
	StateEditing        AppState = "editing"
)

// Valid reports whether s is a known state tag
func (s AppState) Valid() bool {
	switch s {
	case StateInitial, StateDrawingFarm, StatePaddockMode, StateDrawingPaddock,
		StateLivestockMode, StateHeatmapMode, StateEditing:
		return true
	}
	return false
}

// MenuMode is the secondary-menu mode tag
type MenuMode string

const (
	MenuNone      MenuMode = "none"
	MenuLivestock MenuMode = "livestock"
	MenuHeatmap   MenuMode = "heatmap"
)

// PersistedState is what the key-value store holds between sessions
type PersistedState struct {
	Collection     PolygonCollection `json:"collection"`
	SelectedFarmID string            `json:"selectedFarmId"`
	AppState       AppState          `json:"appState"`
	MenuMode       MenuMode          `json:"secondaryMenuMode"`
}

// DefaultPersistedState is used when nothing has been stored yet
func DefaultPersistedState() PersistedState {
	return PersistedState{
		AppState: StateInitial,
		MenuMode: MenuNone,
	}
}
