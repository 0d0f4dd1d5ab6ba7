package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// labCodeRe matches a 2-6 letter laboratory shorthand in parentheses at the
// end of a note, e.g. "TEM clearance pending. (EMSL)" -> "EMSL".
var labCodeRe = regexp.MustCompile(`\(([A-Z]{2,6})\)\s*$`)

// ParseRawObservation deserializes a RawEvent's value into an Observation.
// It expects the flat string JSON produced by the field-collector service.
func ParseRawObservation(raw RawEvent) (Observation, error) {
	var rec RawObservationRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Observation{}, fmt.Errorf("parse raw observation: %w", err)
	}

	lat := parseFloatOrZero(rec.Lat)
	lon := parseFloatOrZero(rec.Lon)
	observedAt := parseHHMM(raw.Timestamp, rec.Time)

	return Observation{
		ID:          generateID(rec.Type, rec.SurveyID, rec.SampleNo, lat, lon, rec.Time),
		RecordType:  rec.Type,
		SurveyID:    rec.SurveyID,
		Space:       rec.Space,
		Material:    rec.Material,
		QuantityRaw: rec.Quantity,
		Condition:   rec.Condition,
		SampleNo:    rec.SampleNo,
		Site:        Site{City: rec.City, State: rec.State},
		Geo:         Geo{Lat: lat, Lon: lon},
		Notes:       rec.Notes,
		ObservedAt:  observedAt,

		RawPayload: raw.Value,
	}, nil
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseHHMM combines a base date with an HHMM time string (e.g. "1510" → 15:10).
func parseHHMM(baseDate time.Time, hhmm string) time.Time {
	hhmm = strings.TrimSpace(hhmm)
	if len(hhmm) < 3 {
		return baseDate
	}
	if len(hhmm) == 3 {
		hhmm = "0" + hhmm
	}

	hour, errH := strconv.Atoi(hhmm[:2])
	mins, errM := strconv.Atoi(hhmm[2:])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || mins < 0 || mins > 59 {
		return baseDate
	}

	return time.Date(
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
		hour, mins, 0, 0, time.UTC,
	)
}

// generateID produces a deterministic ID from the record's key fields.
// Deterministic IDs enable idempotent upserts downstream (ON CONFLICT DO
// NOTHING) and replay safety — reprocessing the same raw record produces
// the same ID.
func generateID(recordType, surveyID, sampleNo string, lat, lon float64, timeStr string) string {
	input := fmt.Sprintf("%s|%s|%s|%.4f|%.4f|%s", recordType, surveyID, sampleNo, lat, lon, timeStr)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if recordType == "" {
		return short
	}
	return recordType + "-" + short
}

// EnrichObservation normalizes and enriches a parsed observation record.
// It validates the record type, parses the free-text quantity into its
// structured form and re-canonicalizes the raw string, normalizes the
// material condition, extracts the lab code from notes, and assigns an
// hourly time bucket.
func EnrichObservation(obs Observation) Observation {
	obs.RecordType = normalizeRecordType(obs.RecordType)
	obs.Quantity = ParseQuantity(obs.QuantityRaw)
	// Re-canonicalize only when the quantity had a numeric prefix; the
	// verbatim fallback must pass through exactly as typed.
	if numericValueRe.MatchString(obs.Quantity.Value) {
		if canonical, ok := FormatQuantity(obs.Quantity); ok {
			obs.QuantityRaw = canonical
		}
	}
	obs.Condition = normalizeCondition(obs.Condition)
	obs.LabCode = extractLabCode(obs.Notes)
	obs.TimeBucket = deriveTimeBucket(obs.ObservedAt)
	obs.ProcessedAt = clock.Now()
	return obs
}

// normalizeRecordType validates the record type metadata added by the
// collector service. Accepts: "bulk", "paint", "air" (exact matches only).
func normalizeRecordType(value string) string {
	switch value {
	case "bulk", "paint", "air":
		return value
	default:
		return ""
	}
}

// normalizeCondition folds the inspector-entered condition ratings onto the
// three-level scale used by assessment reports. Unrecognized text passes
// through untouched so nothing typed in the field is lost.
func normalizeCondition(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "good", "intact":
		return "good"
	case "damaged", "fair":
		return "damaged"
	case "significantly damaged", "sig damaged", "poor":
		return "significantly damaged"
	case "":
		return ""
	default:
		return strings.TrimSpace(value)
	}
}

// extractLabCode pulls the laboratory shorthand from the end of a note
// string, e.g. "PLM analysis requested. (EMSL)" -> "EMSL".
func extractLabCode(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ""
	}

	matches := labCodeRe.FindStringSubmatch(notes)
	if len(matches) == 2 {
		return matches[1]
	}

	return ""
}

// deriveTimeBucket truncates the observation time to the hour in UTC.
// Returns zero time if the input is zero.
func deriveTimeBucket(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}

	return t.UTC().Truncate(time.Hour)
}
