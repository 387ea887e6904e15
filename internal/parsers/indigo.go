package parsers

import (
	"log/slog"
	"regexp"
	"strings"

	"flypoints/internal/models"
)

// Markers delimiting one search-result item on the IndiGo page. A fragment
// runs from one container open tag to the next one, to the static banner that
// trails the result list, or to the end of the document.
var (
	indigoItemOpenRe = regexp.MustCompile(`<div[^>]*class="srp__search-result-list__item"[^>]*>`)
	indigoBanner     = `<div class="at-static-srp-banner"`
)

var (
	indigoFlightLabeledRe = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*flight-number[^"]*"[^>]*>[\s\S]*?6E\s+(\d+)`)
	indigoFlightBareRe    = regexp.MustCompile(`(?i)6E\s+(\d+)`)

	indigoDepartureRe = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*flight-details__flight-departure[^"]*"[^>]*>[\s\S]*?<div[^>]*class="[^"]*time[^"]*sh3[^"]*"[^>]*>(\d{1,2}:\d{2})</div>`)
	indigoArrivalRe   = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*flight-details__flight-arrival[^"]*"[^>]*>[\s\S]*?<div[^>]*class="[^"]*time[^"]*sh3[^"]*"[^>]*>(\d{1,2}:\d{2})</div>`)
	indigoDurationRe  = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*journey-lap[^"]*"[^>]*>[\s\S]*?<div[^>]*class="[^"]*text-color[^"]*body-small-regular[^"]*"[^>]*>(\d+h\s*\d+m|\d+h|\d+\s*hrs?\s*\d+\s*mins?)</div>`)

	indigoEconomyPriceRe  = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*economy-class-item[^"]*"[^>]*>[\s\S]*?<div[^>]*class="[^"]*selected-fare__fare-price[^"]*"[^>]*>₹([\d,]+)`)
	indigoBusinessPriceRe = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*business-class-item[^"]*"[^>]*>[\s\S]*?<div[^>]*class="[^"]*selected-fare__fare-price[^"]*"[^>]*>₹([\d,]+)`)

	indigoPointsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:IndiGo\s+BluChips|points|pts)`)
)

// ParseIndigo extracts flight offers from an IndiGo search-results page.
//
// Unlike the Emirates page, every offer here sits in a recognizable container,
// which gives high-confidence field attribution. The acceptance threshold is
// correspondingly stricter: flight number, departure time and cash price must
// all be present or the fragment is dropped.
func ParseIndigo(markup string) []models.Flight {
	fragments := splitIndigoItems(markup)

	flights := make([]models.Flight, 0, len(fragments))
	seen := make(map[string]bool)

	for _, fragment := range fragments {
		flight, ok := parseIndigoItem(fragment)
		if !ok {
			continue
		}
		if seen[flight.FlightNumber] {
			continue
		}
		seen[flight.FlightNumber] = true
		flights = append(flights, flight)
	}

	return flights
}

// splitIndigoItems segments the markup into one fragment per result item.
// Implemented with explicit index arithmetic rather than a lookahead pattern,
// so each fragment is a pure function of (markup, match offsets).
func splitIndigoItems(markup string) []string {
	opens := indigoItemOpenRe.FindAllStringIndex(markup, -1)
	if len(opens) == 0 {
		return nil
	}

	fragments := make([]string, 0, len(opens))
	for i, open := range opens {
		start := open[0]
		end := len(markup)
		if i+1 < len(opens) {
			end = opens[i+1][0]
		}

		fragment := markup[start:end]
		if banner := strings.Index(fragment, indigoBanner); banner >= 0 {
			fragment = fragment[:banner]
		}
		fragments = append(fragments, fragment)
	}
	return fragments
}

func parseIndigoItem(fragment string) (models.Flight, bool) {
	flightNumber := indigoFlightNumber(fragment)
	if flightNumber == "" {
		return models.Flight{}, false
	}

	departure := firstGroup(indigoDepartureRe, fragment)
	cash := indigoCashPrice(fragment)
	if departure == "" || cash == "" {
		slog.Debug("Dropping incomplete IndiGo item",
			"flight_number", flightNumber,
			"has_departure", departure != "",
			"has_price", cash != "",
		)
		return models.Flight{}, false
	}

	flight := models.NewFlight("IndiGo")
	flight.FlightNumber = flightNumber
	flight.DepartureTime = departure
	flight.CashPrice = cash
	if arrival := firstGroup(indigoArrivalRe, fragment); arrival != "" {
		flight.ArrivalTime = arrival
	}
	if duration := firstGroup(indigoDurationRe, fragment); duration != "" {
		flight.Duration = strings.TrimSpace(duration)
	}
	if m := indigoPointsRe.FindStringSubmatch(fragment); m != nil {
		flight.PointsPrice = m[1] + " points"
	}

	return flight, true
}

// indigoFlightNumber prefers the labeled flight-number div but falls back to
// a bare "6E <digits>" occurrence anywhere in the fragment.
func indigoFlightNumber(fragment string) string {
	if m := indigoFlightLabeledRe.FindStringSubmatch(fragment); m != nil {
		return "6E " + m[1]
	}
	if m := indigoFlightBareRe.FindStringSubmatch(fragment); m != nil {
		return "6E " + m[1]
	}
	return ""
}

// indigoCashPrice tries the economy fare before the business fare.
func indigoCashPrice(fragment string) string {
	if m := indigoEconomyPriceRe.FindStringSubmatch(fragment); m != nil {
		return "₹" + m[1]
	}
	if m := indigoBusinessPriceRe.FindStringSubmatch(fragment); m != nil {
		return "₹" + m[1]
	}
	return ""
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
