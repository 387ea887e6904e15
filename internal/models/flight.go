package models

// NA is the sentinel used for any flight field that could not be resolved.
// Consumers never see an absent field, only this placeholder.
const NA = "N/A"

// Flight represents one normalized flight offer, regardless of which airline
// source it was extracted from
type Flight struct {
	Airline       string `json:"airline"`       // Display name, e.g. "Emirates"
	FlightNumber  string `json:"flightNumber"`  // "<carrier code> <digits>", e.g. "EK 512"
	DepartureTime string `json:"departureTime"` // "HH:MM" 24-hour, or "N/A"
	ArrivalTime   string `json:"arrivalTime"`   // "HH:MM" 24-hour, or "N/A"
	Duration      string `json:"duration"`      // "<h>h <m>m" or "<h>h", or "N/A"
	CashPrice     string `json:"cashPrice"`     // "₹" + Indian-grouped amount, or "N/A"
	PointsPrice   string `json:"pointsPrice"`   // "<n> miles" / "<n> points", or "N/A"

	// Per-fare-tier fields, only populated by sources that expose
	// saver/flex/max fare classes. Each is independently optional.
	SaverPrice  string `json:"saverPrice,omitempty"`
	FlexPrice   string `json:"flexPrice,omitempty"`
	MaxPrice    string `json:"maxPrice,omitempty"`
	SaverPoints string `json:"saverPoints,omitempty"`
	FlexPoints  string `json:"flexPoints,omitempty"`
	MaxPoints   string `json:"maxPoints,omitempty"`
}

// NewFlight creates a flight for the given airline with every field set to
// the "N/A" sentinel
func NewFlight(airline string) Flight {
	return Flight{
		Airline:       airline,
		FlightNumber:  NA,
		DepartureTime: NA,
		ArrivalTime:   NA,
		Duration:      NA,
		CashPrice:     NA,
		PointsPrice:   NA,
	}
}
