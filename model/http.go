package model

// TrackSummary describes one loaded difficulty (or vocal part).
type TrackSummary struct {
	Instrument string `json:"instrument"`
	Difficulty string `json:"difficulty,omitempty"`
	Notes      int    `json:"notes"`
	Phrases    int    `json:"phrases"`
}

type LoadResponse struct {
	ID         string         `json:"id"`
	Format     string         `json:"format"`
	Name       string         `json:"name,omitempty"`
	Artist     string         `json:"artist,omitempty"`
	Resolution uint16         `json:"resolution"`
	EndTicks   int64          `json:"end_ticks"`
	EndSeconds float64        `json:"end_seconds"`
	Drums      string         `json:"drums,omitempty"`
	Sections   []string       `json:"sections"`
	Tracks     []TrackSummary `json:"tracks"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
