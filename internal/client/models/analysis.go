package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// AnalysisRecord is one completed skin-image analysis. UserID holds the
// owner's lower-cased email; Confidence is nil when the inference endpoint
// returned bare labels without scores.
type AnalysisRecord struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	Date       string   `json:"date"`
	Disease    string   `json:"disease"`
	Confidence *float64 `json:"confidence,omitempty"`
	ImageURI   string   `json:"imageUri"`
}

// dateLayouts are the non-RFC3339 shapes older records were written with.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// When parses the record's Date, tolerating RFC3339 strings, numeric epoch
// values (seconds or milliseconds), and legacy display layouts. The second
// return value is false when nothing matched.
func (r AnalysisRecord) When() (time.Time, bool) {
	return parseWhen(r.Date)
}

func parseWhen(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Epoch milliseconds start looking like this around 2001; plain
		// seconds stay well below for any plausible record date.
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

// DisplayDate renders the record date for the user, falling back to
// "unavailable" when the stored value cannot be parsed.
func (r AnalysisRecord) DisplayDate() string {
	t, ok := r.When()
	if !ok {
		return "unavailable"
	}
	return t.Format("02 Jan 2006 15:04")
}

// DecodeHistory parses a stored history collection. A missing or corrupted
// payload yields an empty collection, never an error: history must survive
// whatever an older revision left in the store.
func DecodeHistory(raw []byte) []AnalysisRecord {
	if len(raw) == 0 {
		return nil
	}
	var records []AnalysisRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return records
}
