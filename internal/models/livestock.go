package models

import "time"

// LivestockType enumerates the kinds of animals a paddock can hold
type LivestockType string

const (
	LivestockCattle LivestockType = "cattle"
	LivestockSheep  LivestockType = "sheep"
	LivestockGoats  LivestockType = "goats"
	LivestockHorses LivestockType = "horses"
	LivestockOther  LivestockType = "other"
)

// LivestockStatus enumerates herd health states
type LivestockStatus string

const (
	StatusHealthy    LivestockStatus = "healthy"
	StatusAttention  LivestockStatus = "attention"
	StatusQuarantine LivestockStatus = "quarantine"
	StatusBreeding   LivestockStatus = "breeding"
	StatusMedication LivestockStatus = "medication"
)

// LivestockRecord associates a paddock with its current herd
type LivestockRecord struct {
	PaddockID   string          `json:"paddockId"`
	Count       int             `json:"count"`
	Type        LivestockType   `json:"type"`
	Status      LivestockStatus `json:"status"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// LivestockAnnotation is the display projection of a record at its paddock's centroid
type LivestockAnnotation struct {
	PaddockID  string          `json:"paddockId"`
	Coordinate Coordinate      `json:"coordinate"`
	Count      int             `json:"count"`
	Type       LivestockType   `json:"type"`
	Status     LivestockStatus `json:"status"`
}
