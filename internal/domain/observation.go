package domain

import (
	"context"
	"time"
)

// RawObservationRecord represents the flat JSON structure published by the
// field-collector service. Every column is a string: the mobile forms allow
// free text in most fields, and the collector forwards them untouched.
type RawObservationRecord struct {
	Time        string `json:"Time"`        // HHMM, 24-hour, site-local clock per the collector
	SurveyID    string `json:"SurveyId"`    // parent survey identifier
	Space       string `json:"Space"`       // functional space, e.g. "Boiler Room"
	Material    string `json:"Material"`    // suspect material description
	Quantity    string `json:"Quantity"`    // free text, e.g. "500 SqFt", "12 boxes"
	Condition   string `json:"Condition"`   // material condition, e.g. "Good", "Damaged"
	SampleNo    string `json:"SampleNo"`    // chain-of-custody sample number
	City        string `json:"City"`
	State       string `json:"State"`
	Lat         string `json:"Lat"`
	Lon         string `json:"Lon"`
	Notes       string `json:"Notes"`
	Type        string `json:"Type"` // "bulk", "paint", or "air"
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Site holds the record's location fields plus parsed coordinates.
type Site struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// Observation is the domain-rich representation after parsing and enrichment.
type Observation struct {
	ID          string    `json:"id"`
	RecordType  string    `json:"type"` // "bulk", "paint", "air"
	SurveyID    string    `json:"survey_id"`
	Space       string    `json:"space,omitempty"`
	Material    string    `json:"material,omitempty"`
	Quantity    Quantity  `json:"quantity"`
	QuantityRaw string    `json:"quantity_raw,omitempty"` // as typed by the inspector
	Condition   string    `json:"condition,omitempty"`
	SampleNo    string    `json:"sample_no,omitempty"`
	Site        Site      `json:"site,omitempty"`
	Geo         Geo       `json:"geo,omitempty"`
	LabCode     string    `json:"lab_code,omitempty"` // lab shorthand from notes, e.g. "(EMSL)"
	Notes       string    `json:"notes,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
	TimeBucket  time.Time `json:"time_bucket,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
