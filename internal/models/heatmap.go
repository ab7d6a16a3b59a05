package models

// HeatmapPoint represents a single sample of the livestock density field
type HeatmapPoint struct {
	ID         string     `json:"id"`         // "heatmap-{i}-{j}"
	Coordinate Coordinate `json:"coordinate"` // Sample position
	Value      int        `json:"value"`      // Density 0-100
	Category   string     `json:"category"`   // "livestock-density"
}

// Intensity returns the value normalized to 0-1
func (p HeatmapPoint) Intensity() float64 {
	return float64(p.Value) / 100
}
