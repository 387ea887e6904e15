package snapshots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indigoSnapshot = `<div class="srp__search-result-list__item">` +
	`<div class="flight-number">6E 2001</div>` +
	`<div class="flight-details__flight-departure"><div class="skyplus-text time sh3">06:15</div></div>` +
	`<div class="flight-details__flight-arrival"><div class="skyplus-text time sh3">08:25</div></div>` +
	`<div class="economy-class-item"><div class="selected-fare__fare-price">₹4,726</div></div>` +
	`</div>`

const emiratesSnapshot = `EK 511 Departs 09:15 Arrives 13:45 Duration 7h 30m Economy Class INR 42,000`

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStoreFlightsIndigoRoute(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "del-bom-indigo.html", indigoSnapshot)

	flights, err := NewStore(dir).Flights("DEL", "BOM")
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "IndiGo", flights[0].Airline)
	assert.Equal(t, "6E 2001", flights[0].FlightNumber)
	assert.Equal(t, "₹4,726", flights[0].CashPrice)
}

func TestStoreFlightsEmiratesRoute(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "international/del-lon-emirates.html", emiratesSnapshot)

	flights, err := NewStore(dir).Flights("DEL", "LON")
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "Emirates", flights[0].Airline)
	assert.Equal(t, "EK 511", flights[0].FlightNumber)
	assert.Equal(t, "₹42,000", flights[0].CashPrice)
}

func TestStoreFlightsHeathrowAlias(t *testing.T) {
	// LHR and LON resolve to the same snapshot
	dir := t.TempDir()
	writeSnapshot(t, dir, "international/del-lon-emirates.html", emiratesSnapshot)

	flights, err := NewStore(dir).Flights("DEL", "LHR")
	require.NoError(t, err)
	require.Len(t, flights, 1)
}

func TestStoreFlightsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "del-bom-indigo.html", indigoSnapshot)

	flights, err := NewStore(dir).Flights("del", "bom")
	require.NoError(t, err)
	require.Len(t, flights, 1)
}

func TestStoreFlightsUnknownRoute(t *testing.T) {
	flights, err := NewStore(t.TempDir()).Flights("DEL", "JFK")
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestStoreFlightsMissingSnapshotFile(t *testing.T) {
	_, err := NewStore(t.TempDir()).Flights("DEL", "BOM")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLookup(t *testing.T) {
	route, ok := Lookup("BOM", "DEL")
	require.True(t, ok)
	assert.Equal(t, AirlineIndigo, route.Airline)

	_, ok = Lookup("DEL", "SIN")
	assert.False(t, ok)
}
