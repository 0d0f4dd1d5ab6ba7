// Command genmock generates the mock observation fixtures used by the test
// suites. It runs the synthetic raw records through the actual domain
// transform so the transformed output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -raw-out data/mock/field_observations_combined.json \
//	  -transformed-out data/mock/field_observations_transformed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fieldvane/field-data-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawOut := flag.String("raw-out", "data/mock/field_observations_combined.json", "output path for raw record fixture")
	transformedOut := flag.String("transformed-out", "data/mock/field_observations_transformed.json", "output path for transformed fixture")
	flag.Parse()

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	records := mockRecords()

	transformed := make([]domain.Observation, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.SampleNo, err)
		}

		obs, err := domain.ParseRawObservation(domain.RawEvent{
			Value:     payload,
			Timestamp: baseDate,
		})
		if err != nil {
			return fmt.Errorf("parse record %s: %w", rec.SampleNo, err)
		}
		transformed = append(transformed, domain.EnrichObservation(obs))
	}

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s (%d records)", *rawOut, len(records))

	if err := writeJSON(*transformedOut, transformed); err != nil {
		return fmt.Errorf("writing transformed fixture: %w", err)
	}
	log.Printf("wrote transformed fixture: %s", *transformedOut)

	printStats(transformed)
	return nil
}

// mockRecords returns the synthetic survey day: three surveys' worth of bulk
// samples, a lead paint walkthrough, and the clearance air sampling that
// closes out an abatement. Field values exercise the quantity and condition
// normalizers the way inspectors actually type them.
func mockRecords() []domain.RawObservationRecord {
	return []domain.RawObservationRecord{
		{Time: "0805", SurveyID: "SVY-2301", Space: "Boiler Room", Material: "Pipe insulation", Quantity: "120 LF", Condition: "Damaged", SampleNo: "B-001", City: "Chicago", State: "IL", Lat: "41.8781", Lon: "-87.6298", Notes: "TSI on supply lines. (EMSL)", Type: "bulk"},
		{Time: "0820", SurveyID: "SVY-2301", Space: "Boiler Room", Material: "Tank insulation", Quantity: "85 SqFt", Condition: "Good", SampleNo: "B-002", City: "Chicago", State: "IL", Lat: "41.8781", Lon: "-87.6298", Notes: "Hard-pack mudded fittings.", Type: "bulk"},
		{Time: "0855", SurveyID: "SVY-2301", Space: "Corridor 1F", Material: "Floor tile 9x9", Quantity: "1400 sq ft", Condition: "Good", SampleNo: "B-003", City: "Chicago", State: "IL", Lat: "41.8781", Lon: "-87.6298", Notes: "Black mastic beneath. (PLM)", Type: "bulk"},
		{Time: "0930", SurveyID: "SVY-2302", Space: "Mechanical Penthouse", Material: "Duct seam tape", Quantity: "60 lf", Condition: "Sig Damaged", SampleNo: "B-004", City: "Evanston", State: "IL", Lat: "42.0451", Lon: "-87.6877", Notes: "Delaminating at elbows.", Type: "bulk"},
		{Time: "1015", SurveyID: "SVY-2302", Space: "Storage B2", Material: "Ceiling tile 2x4", Quantity: "12 boxes", Condition: "Intact", SampleNo: "B-005", City: "Evanston", State: "IL", Lat: "42.0451", Lon: "-87.6877", Notes: "Stacked spares, non-friable.", Type: "bulk"},
		{Time: "1050", SurveyID: "SVY-2303", Space: "Stairwell A", Material: "Handrail paint", Quantity: "40 LF", Condition: "Poor", SampleNo: "P-001", City: "Oak Park", State: "IL", Lat: "41.8850", Lon: "-87.7845", Notes: "Flaking to bare metal. (XRF)", Type: "paint"},
		{Time: "1105", SurveyID: "SVY-2303", Space: "Stairwell A", Material: "Wall paint", Quantity: "300 SqFt", Condition: "Fair", SampleNo: "P-002", City: "Oak Park", State: "IL", Lat: "41.8850", Lon: "-87.7845", Notes: "Chalking, intact substrate.", Type: "paint"},
		{Time: "1130", SurveyID: "SVY-2303", Space: "Window Line W", Material: "Window sash paint", Quantity: "18 Qty", Condition: "Damaged", SampleNo: "P-003", City: "Oak Park", State: "IL", Lat: "41.8850", Lon: "-87.7845", Notes: "Friction surfaces worn. (EMSL)", Type: "paint"},
		{Time: "1215", SurveyID: "SVY-2304", Space: "Gymnasium", Material: "Door frame paint", Quantity: "22 qty", Condition: "Good", SampleNo: "P-004", City: "Cicero", State: "IL", Lat: "41.8456", Lon: "-87.7539", Notes: "", Type: "paint"},
		{Time: "1240", SurveyID: "SVY-2304", Space: "Cafeteria", Material: "Radiator paint", Quantity: "9 Qty", Condition: "Intact", SampleNo: "P-005", City: "Cicero", State: "IL", Lat: "41.8456", Lon: "-87.7539", Notes: "Repainted 2019 per custodian.", Type: "paint"},
		{Time: "1310", SurveyID: "SVY-2305", Space: "Abatement Zone 1", SampleNo: "A-001", City: "Chicago", State: "IL", Lat: "41.8827", Lon: "-87.6233", Notes: "Clearance air, 5 cassettes. (EMSL)", Type: "air"},
		{Time: "1335", SurveyID: "SVY-2305", Space: "Abatement Zone 1", SampleNo: "A-002", City: "Chicago", State: "IL", Lat: "41.8827", Lon: "-87.6233", Notes: "Perimeter sample, negative pressure verified.", Type: "air"},
		{Time: "1400", SurveyID: "SVY-2306", Space: "Containment East", SampleNo: "A-003", City: "Skokie", State: "IL", Lat: "42.0324", Lon: "-87.7416", Notes: "TEM clearance pending. (RJLEE)", Type: "air"},
		{Time: "1425", SurveyID: "SVY-2306", Space: "Containment East", SampleNo: "A-004", City: "Skokie", State: "IL", Lat: "42.0324", Lon: "-87.7416", Notes: "Background sample, ambient.", Type: "air"},
		{Time: "1455", SurveyID: "SVY-2306", Space: "Decon Unit", SampleNo: "A-005", City: "Skokie", State: "IL", Lat: "42.0324", Lon: "-87.7416", Notes: "Final visual passed. (EMSL)", Type: "air"},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(observations []domain.Observation) {
	typeCounts := map[string]int{}
	unitCounts := map[domain.UnitTag]int{}
	conditionCounts := map[string]int{}
	labCounts := map[string]int{}

	for i := range observations {
		o := &observations[i]
		typeCounts[o.RecordType]++
		if o.Quantity.Value != "" {
			unitCounts[o.Quantity.Unit]++
		}
		if o.Condition != "" {
			conditionCounts[o.Condition]++
		}
		if o.LabCode != "" {
			labCounts[o.LabCode]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(observations))
	fmt.Printf("By type: bulk=%d, paint=%d, air=%d\n",
		typeCounts["bulk"], typeCounts["paint"], typeCounts["air"])
	fmt.Printf("By unit: sqft=%d, lf=%d, qty=%d, other=%d\n",
		unitCounts[domain.UnitSqFt], unitCounts[domain.UnitLF],
		unitCounts[domain.UnitQty], unitCounts[domain.UnitOther])
	fmt.Printf("By condition: good=%d, damaged=%d, significantly damaged=%d\n",
		conditionCounts["good"], conditionCounts["damaged"],
		conditionCounts["significantly damaged"])
	fmt.Printf("Lab codes: ")
	for code, n := range labCounts {
		fmt.Printf("%s=%d ", code, n)
	}
	fmt.Println()

	printFirstBulk(observations)
}

func printFirstBulk(observations []domain.Observation) {
	for i := range observations {
		if observations[i].RecordType != "bulk" {
			continue
		}
		o := &observations[i]
		fmt.Printf("\nFirst bulk record:\n")
		fmt.Printf("  ID: %s\n", o.ID)
		fmt.Printf("  Space: %s, Material: %s\n", o.Space, o.Material)
		fmt.Printf("  Quantity: %s %s (raw %q)\n", o.Quantity.Value, o.Quantity.Unit, o.QuantityRaw)
		fmt.Printf("  Condition: %s, LabCode: %s\n", o.Condition, o.LabCode)
		fmt.Printf("  ObservedAt: %s\n", o.ObservedAt.Format(time.RFC3339))
		fmt.Printf("  TimeBucket: %s\n", o.TimeBucket.Format(time.RFC3339))
		return
	}
}
