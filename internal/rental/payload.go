package rental

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

// ParsePayload turns decoded QR text into a ScanPayload. It never fails: a JSON
// object carrying an id is read field by field, anything else becomes a bare
// identifier at an unknown station.
func ParsePayload(text string) models.ScanPayload {
	if payload, ok := parseObject(text); ok {
		return payload
	}
	return models.ScanPayload{Station: models.UnknownStation, ID: text, Raw: true}
}

func parseObject(text string) (models.ScanPayload, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return models.ScanPayload{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return models.ScanPayload{}, false
	}

	id := scalarString(fields["id"])
	if id == "" {
		return models.ScanPayload{}, false
	}

	station := scalarString(fields["station"])
	if station == "" {
		station = models.UnknownStation
	}
	return models.ScanPayload{Station: station, ID: id}, true
}

// scalarString accepts JSON strings and numbers
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return n.String()
		}
	}
	return ""
}
