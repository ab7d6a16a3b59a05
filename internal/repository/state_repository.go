package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jengzang/paddock-backend-go/internal/database"
	"github.com/jengzang/paddock-backend-go/internal/models"
)

// Storage keys
const (
	KeyPolygons       = "polygons"
	KeySelectedFarmID = "selectedFarmId"
	KeyAppState       = "appState"
	KeyMenuMode       = "secondaryMenuMode"
)

// StateRepository stores the farm session in the kv_store table
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Save writes every key in one transaction. The last write wins.
func (r *StateRepository) Save(state models.PersistedState) error {
	polygons, err := json.Marshal(state.Collection)
	if err != nil {
		return fmt.Errorf("failed to encode polygons: %w", err)
	}

	values := map[string]string{
		KeyPolygons:       string(polygons),
		KeySelectedFarmID: state.SelectedFarmID,
		KeyAppState:       string(state.AppState),
		KeyMenuMode:       string(state.MenuMode),
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare upsert: %w", err)
		}
		defer stmt.Close()

		for key, value := range values {
			if _, err := stmt.Exec(key, value); err != nil {
				return fmt.Errorf("failed to save %s: %w", key, err)
			}
		}
		return nil
	})
}

// Load reads the stored session. Missing keys keep their defaults and an
// undecodable collection is replaced by an empty one.
func (r *StateRepository) Load() (models.PersistedState, error) {
	state := models.DefaultPersistedState()

	rows, err := r.db.Query("SELECT key, value FROM kv_store WHERE key IN (?, ?, ?, ?)",
		KeyPolygons, KeySelectedFarmID, KeyAppState, KeyMenuMode)
	if err != nil {
		return state, fmt.Errorf("failed to query state: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return state, fmt.Errorf("failed to scan state: %w", err)
		}

		switch key {
		case KeyPolygons:
			var c models.PolygonCollection
			if err := json.Unmarshal([]byte(value), &c); err != nil {
				log.Printf("[StateRepository] Discarding unreadable polygons: %v", err)
				continue
			}
			state.Collection = c
		case KeySelectedFarmID:
			state.SelectedFarmID = value
		case KeyAppState:
			if value != "" {
				state.AppState = models.AppState(value)
			}
		case KeyMenuMode:
			if value != "" {
				state.MenuMode = models.MenuMode(value)
			}
		}
	}

	return state, rows.Err()
}

// Clear removes every stored key
func (r *StateRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM kv_store"); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
