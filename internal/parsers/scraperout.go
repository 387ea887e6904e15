package parsers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"flypoints/internal/models"
	"flypoints/internal/price"
)

// errSampleLen bounds how much offending scraper output is quoted in
// diagnostics.
const errSampleLen = 500

// RawFlight is one flight as emitted by a fare-search scraper subprocess.
// Every field is optional; the shape is validated field-by-field during
// conversion rather than trusted.
type RawFlight struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`

	Price    string `json:"price"`
	PriceINR string `json:"price_inr"`

	SaverPrice string `json:"spicesaver_price"`
	FlexPrice  string `json:"spiceflex_price"`
	MaxPrice   string `json:"spicemax_price"`

	AwardPoints string `json:"award_points"`
	SaverPoints string `json:"spicesaver_points"`
	FlexPoints  string `json:"spiceflex_points"`
	MaxPoints   string `json:"spicemax_points"`
}

// ScraperResult is the decoded scraper payload. Exactly one of the three
// outcomes holds: flights were found, the scraper reported an error, or the
// payload carried neither (zero flights, not a failure).
type ScraperResult struct {
	Success bool        `json:"success"`
	Flights []RawFlight `json:"flights"`
	Error   string      `json:"error"`
}

// ExtractJSONObject recovers the first complete JSON object embedded in a
// noisy text stream, e.g. scraper stdout with log lines before and after the
// payload. The scan tracks string state (with backslash escapes) and brace
// and bracket depth, so braces inside string values and nested arrays do not
// fool it. Returns false if no balanced object is found.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	text = text[start:]

	braceDepth := 0
	bracketDepth := 0
	inString := false
	escapeNext := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if c == '\\' {
			escapeNext = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth == 0 {
				return text[:i+1], true
			}
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
	}

	return "", false
}

// DecodeScraperOutput parses a scraper's combined stdout into a ScraperResult.
// If no balanced object can be recovered, the full remainder after the first
// brace is tried as-is before giving up.
func DecodeScraperOutput(stdout string) (*ScraperResult, error) {
	payload, ok := ExtractJSONObject(stdout)
	if !ok {
		trimmed := strings.TrimSpace(stdout)
		if start := strings.IndexByte(trimmed, '{'); start >= 0 {
			trimmed = trimmed[start:]
		}
		payload = trimmed
	}

	var result ScraperResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("no JSON object in scraper output (%w): %s", err, truncate(stdout, errSampleLen))
	}
	return &result, nil
}

// ParseErrorObject pulls the message out of an {"error": ...} object embedded
// in a scraper's stderr. Empty string when none is present.
func ParseErrorObject(stderr string) string {
	payload, ok := ExtractJSONObject(stderr)
	if !ok {
		return ""
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return ""
	}
	return obj.Error
}

// ConvertScraperFlights maps raw scraper flights into the uniform record
// shape. Records resolving to an absent, unparsable or zero price are dropped
// outright; a conversion failure on one record is logged and skipped without
// touching the rest of the batch. Duplicate flight numbers keep the first
// occurrence; records without a flight number are never deduped.
func ConvertScraperFlights(raw []RawFlight, defaultAirline string) []models.Flight {
	flights := make([]models.Flight, 0, len(raw))
	seen := make(map[string]bool)

	for _, rf := range raw {
		flight, ok := convertScraperFlight(rf, defaultAirline)
		if !ok {
			continue
		}
		// Only real flight numbers dedup; records that fell back to the
		// sentinel are distinct offers and all pass through.
		if flight.FlightNumber != models.NA {
			if seen[flight.FlightNumber] {
				continue
			}
			seen[flight.FlightNumber] = true
		}
		flights = append(flights, flight)
	}

	return flights
}

func convertScraperFlight(rf RawFlight, defaultAirline string) (models.Flight, bool) {
	// Price fields in priority order: saver tier, then the explicit INR
	// field, then the plain price field used by single-tier scrapers.
	amount := int64(0)
	for _, raw := range []string{rf.SaverPrice, rf.PriceINR, rf.Price} {
		if !fieldPresent(raw) {
			continue
		}
		n, err := price.ParseAmount(raw)
		if err != nil {
			slog.Debug("Unparsable scraper price", "flight_number", rf.FlightNumber, "raw", raw, "error", err)
			continue
		}
		amount = n
		break
	}

	// Zero or absent price is a hard filter, not a sentinel case.
	if amount <= 0 {
		return models.Flight{}, false
	}

	flight := models.NewFlight(defaultAirline)
	if fieldPresent(rf.Airline) {
		flight.Airline = rf.Airline
	}
	if fieldPresent(rf.FlightNumber) {
		flight.FlightNumber = rf.FlightNumber
	}
	if fieldPresent(rf.DepartureTime) {
		flight.DepartureTime = rf.DepartureTime
	}
	if fieldPresent(rf.ArrivalTime) {
		flight.ArrivalTime = rf.ArrivalTime
	}
	if fieldPresent(rf.Duration) {
		flight.Duration = rf.Duration
	}
	flight.CashPrice = "₹" + price.FormatIndian(amount)

	// Points in priority order: saver tier, then the generic award field.
	for _, raw := range []string{rf.SaverPoints, rf.AwardPoints} {
		if pts, ok := formatPoints(raw); ok {
			flight.PointsPrice = pts
			break
		}
	}

	flight.SaverPrice = formatTierPrice(rf.SaverPrice)
	flight.FlexPrice = formatTierPrice(rf.FlexPrice)
	flight.MaxPrice = formatTierPrice(rf.MaxPrice)
	flight.SaverPoints = formatTierPoints(rf.SaverPoints)
	flight.FlexPoints = formatTierPoints(rf.FlexPoints)
	flight.MaxPoints = formatTierPoints(rf.MaxPoints)

	return flight, true
}

func fieldPresent(raw string) bool {
	return raw != "" && raw != models.NA
}

func formatPoints(raw string) (string, bool) {
	if !fieldPresent(raw) {
		return "", false
	}
	n, err := price.ParseAmount(raw)
	if err != nil || n <= 0 {
		return "", false
	}
	return price.FormatIndian(n) + " points", true
}

// formatTierPrice re-renders an optional per-tier fare; empty when the tier
// was not offered.
func formatTierPrice(raw string) string {
	if !fieldPresent(raw) {
		return ""
	}
	n, err := price.ParseAmount(raw)
	if err != nil || n <= 0 {
		return ""
	}
	return "₹" + price.FormatIndian(n)
}

func formatTierPoints(raw string) string {
	if !fieldPresent(raw) {
		return ""
	}
	n, err := price.ParseAmount(raw)
	if err != nil || n <= 0 {
		return ""
	}
	return price.FormatIndian(n)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
