// Package snapshots serves flight data from cached HTML result pages, used
// as the offline source and as the fallback when live scraping fails.
package snapshots

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flypoints/internal/models"
	"flypoints/internal/parsers"
)

// Airline identifies which parser handles a snapshot.
type Airline string

const (
	AirlineIndigo   Airline = "indigo"
	AirlineEmirates Airline = "emirates"
)

// Route maps an airport pair to its cached snapshot.
type Route struct {
	File    string
	Airline Airline
}

// routes mirrors the snapshot files we keep. Heathrow is also reachable via
// the metropolitan LON code, hence the duplicate entries.
var routes = map[string]Route{
	"DEL-BOM": {File: "del-bom-indigo.html", Airline: AirlineIndigo},
	"BOM-DEL": {File: "bom-delhi-indigo.html", Airline: AirlineIndigo},
	"BLR-BOM": {File: "blr-bom-indigo.html", Airline: AirlineIndigo},
	"BOM-BLR": {File: "bom-blr-indigo.html", Airline: AirlineIndigo},
	"BLR-DEL": {File: "blr-del-indigo.html", Airline: AirlineIndigo},
	"DEL-BLR": {File: "del-blr-indigo.html", Airline: AirlineIndigo},

	"DEL-LON": {File: "international/del-lon-emirates.html", Airline: AirlineEmirates},
	"DEL-LHR": {File: "international/del-lon-emirates.html", Airline: AirlineEmirates},
	"LON-DEL": {File: "international/lon-del-emirates.html", Airline: AirlineEmirates},
	"LHR-DEL": {File: "international/lon-del-emirates.html", Airline: AirlineEmirates},
	"DEL-DXB": {File: "international/del-dxb-emirates.html", Airline: AirlineEmirates},
	"DXB-DEL": {File: "international/dxb-del-emirates.html", Airline: AirlineEmirates},
}

// Store loads cached snapshots from a directory.
type Store struct {
	dir string
}

// NewStore creates a snapshot store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Lookup resolves an airport pair to its snapshot route.
func Lookup(from, to string) (Route, bool) {
	route, ok := routes[strings.ToUpper(from)+"-"+strings.ToUpper(to)]
	return route, ok
}

// Flights parses the cached snapshot for an airport pair. An unknown pair
// yields an empty result, not an error; a known pair whose snapshot file is
// unreadable is an error.
func (s *Store) Flights(from, to string) ([]models.Flight, error) {
	route, ok := Lookup(from, to)
	if !ok {
		return nil, nil
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, route.File))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", route.File, err)
	}

	switch route.Airline {
	case AirlineEmirates:
		return parsers.ParseEmirates(string(raw)), nil
	default:
		return parsers.ParseIndigo(string(raw)), nil
	}
}
