// Package domain models field-inspection observation records and the site
// weather preview used by environmental consulting crews.
//
// # Data Source
//
// Observation records originate in the mobile survey forms (bulk sampling,
// paint/observation sampling, and air-monitoring jobs). The upstream
// collector service drains completed forms on a schedule, injects a "Type"
// field, and publishes each row as flat string JSON to the Kafka source
// topic. All columns arrive as strings because the forms allow free text.
//
// # Field Conventions
//
// Quantity format:
//
//	"<number> <unit token>"  →  e.g. "500 SqFt", "20 LF", "3 Qty", "12 boxes".
//	Unit tokens are matched case-insensitively: sq ft/sqft/sf, lf/linear
//	ft/linear feet, qty. Anything else is kept verbatim as a custom unit.
//	Input with no numeric prefix at all ("approx room") is preserved whole
//	as the value — inspectors sometimes type qualitative notes in the
//	quantity field, and that text must survive the pipeline untouched.
//
// Time format:
//
//	HHMM in 24-hour notation, e.g. "1510" = 15:10.
//	Three-digit values are zero-padded: "930" → "0930".
//	The date portion comes from the Kafka message timestamp, set by the
//	collector from the form submission date.
//
// Condition ratings:
//
//	Assessment reports use a three-level scale: good, damaged, significantly
//	damaged. Common inspector spellings ("Intact", "Fair", "Poor", "Sig
//	Damaged") are folded onto that scale; unrecognized text passes through.
//
// Lab codes:
//
//	Laboratory shorthand appears in parentheses at the end of note strings:
//	"PLM analysis requested. (EMSL)" → lab code "EMSL". Codes are 2–6
//	uppercase letters. Extracted by [extractLabCode].
//
// # Weather Preview
//
// The forecast aggregation ([AggregateDaily]) converts the upstream API's
// hourly entries into at most seven per-day summaries: rounded high/low
// temperature, maximum precipitation probability as a percentage, and the
// first sky-condition label seen that day. Day boundaries follow the site's
// timezone when one is supplied, otherwise the process-local zone — the
// preview is meant to reflect the field site's local day, not UTC.
//
// # ID Generation
//
// Observation IDs are deterministic SHA-256 hashes of
// type|survey|sample|lat|lon|time. This enables idempotent upserts
// downstream (ON CONFLICT DO NOTHING) and replay safety without distributed
// coordination. See [generateID].
package domain
