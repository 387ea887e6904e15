package parsers

import (
	"log/slog"
	"regexp"

	"flypoints/internal/models"
	"flypoints/internal/price"
)

// Fixed exchange rates for Emirates result pages that quote fares in a
// foreign currency instead of INR.
const (
	gbpToINR = 117.30
	aedToINR = 24.41
)

// Context window bounds around each EK flight-number match. The page puts
// times, prices and durations after the flight number, so the look-ahead is
// double the look-behind.
const (
	emiratesWindowBefore = 1500
	emiratesWindowAfter  = 3000
)

var (
	emiratesFlightRe = regexp.MustCompile(`(?i)EK\s*(\d{3,4})`)
	clockTimeRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

	inrPriceRe = regexp.MustCompile(`(?i)INR\s*([\d,]+)`)
	gbpPriceRe = regexp.MustCompile(`(?i)GBP\s*([\d,]+)`)
	aedPriceRe = regexp.MustCompile(`(?i)AED\s*([\d,]+)`)

	durationFullRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:h|hours?|hrs?)\s*(\d+)?\s*(?:m|mins?|minutes?)`)
	durationHoursRe = regexp.MustCompile(`(?i)(\d+)\s*(?:h|hours?|hrs?)`)

	milesRe        = regexp.MustCompile(`(?i)(\d+)\s*(?:Skywards\s*)?(?:miles|points|pts)`)
	milesLabeledRe = regexp.MustCompile(`(?i)miles[:\s]*(\d+)`)
)

// ParseEmirates extracts flight offers from an Emirates search-results page.
//
// The page has no reliable per-offer container, so every EK flight-number
// occurrence anchors a bounded context window and each field is matched
// independently inside it. A record is emitted only when at least one of
// departure time or cash price was found; anything weaker is too unreliable
// to surface. Remaining unmatched fields stay "N/A".
func ParseEmirates(markup string) []models.Flight {
	windows := ExtractWindows(markup, emiratesFlightRe, emiratesWindowBefore, emiratesWindowAfter)

	flights := make([]models.Flight, 0, len(windows))
	seen := make(map[string]bool)

	for _, w := range windows {
		flightNumber := "EK " + w.MatchedID
		if seen[flightNumber] {
			continue
		}

		flight, ok := parseEmiratesWindow(flightNumber, w.Text)
		if !ok {
			// Not marked seen: a later occurrence of the same number may
			// carry enough context to clear the threshold.
			continue
		}

		seen[flightNumber] = true
		flights = append(flights, flight)
	}

	return flights
}

func parseEmiratesWindow(flightNumber, window string) (models.Flight, bool) {
	departure, arrival := firstTwoTimes(window)
	cash := emiratesCashPrice(window)

	if flightNumber == "" || (departure == "" && cash == "") {
		return models.Flight{}, false
	}

	flight := models.NewFlight("Emirates")
	flight.FlightNumber = flightNumber
	if departure != "" {
		flight.DepartureTime = departure
	}
	if arrival != "" {
		flight.ArrivalTime = arrival
	}
	if cash != "" {
		flight.CashPrice = cash
	}
	if duration := matchDuration(window); duration != "" {
		flight.Duration = duration
	}
	if points := emiratesPoints(window); points != "" {
		flight.PointsPrice = points
	}

	return flight, true
}

// firstTwoTimes returns the first two distinct HH:MM occurrences in the
// window. The first is the departure, the second the arrival; with only one
// distinct time the arrival repeats the departure.
func firstTwoTimes(window string) (departure, arrival string) {
	var unique []string
	seen := make(map[string]bool)
	for _, t := range clockTimeRe.FindAllString(window, -1) {
		if seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
		if len(unique) == 2 {
			break
		}
	}

	switch len(unique) {
	case 0:
		return "", ""
	case 1:
		return unique[0], unique[0]
	default:
		return unique[0], unique[1]
	}
}

// emiratesCashPrice tries the three currencies the page is known to quote,
// in priority order: INR as-is, then GBP and AED converted at fixed rates.
func emiratesCashPrice(window string) string {
	if m := inrPriceRe.FindStringSubmatch(window); m != nil {
		return "₹" + m[1]
	}

	for _, fx := range []struct {
		re   *regexp.Regexp
		rate float64
	}{
		{gbpPriceRe, gbpToINR},
		{aedPriceRe, aedToINR},
	} {
		m := fx.re.FindStringSubmatch(window)
		if m == nil {
			continue
		}
		amount, err := price.ParseAmount(m[1])
		if err != nil {
			slog.Debug("Skipping unparsable foreign fare", "raw", m[1], "error", err)
			continue
		}
		return "₹" + price.FormatIndian(price.Convert(float64(amount), fx.rate))
	}

	return ""
}

// matchDuration prefers the compound "Nh Mm" phrasing over a bare hour count.
func matchDuration(window string) string {
	if m := durationFullRe.FindStringSubmatch(window); m != nil {
		if m[2] != "" {
			return m[1] + "h " + m[2] + "m"
		}
		return m[1] + "h"
	}
	if m := durationHoursRe.FindStringSubmatch(window); m != nil {
		return m[1] + "h"
	}
	return ""
}

func emiratesPoints(window string) string {
	if m := milesRe.FindStringSubmatch(window); m != nil {
		return m[1] + " miles"
	}
	if m := milesLabeledRe.FindStringSubmatch(window); m != nil {
		return m[1] + " miles"
	}
	return ""
}
