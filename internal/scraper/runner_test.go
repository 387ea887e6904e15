package scraper

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops a shell script into a temp dir so tests can stand in for
// the real scrapers without a Python toolchain.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRunnerSuccess(t *testing.T) {
	script := writeScript(t, `echo '{"success": true, "flights": [{"flight_number": "SG 8152", "departure_time": "06:40", "price_inr": "₹8,338"}], "count": 1}'`)
	r := NewRunner("/bin/sh", script, "SpiceJet", time.Minute)

	flights, err := r.Run(context.Background(), "DEL", "BOM", "15-09-2026")
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "SpiceJet", flights[0].Airline)
	assert.Equal(t, "SG 8152", flights[0].FlightNumber)
	assert.Equal(t, "₹8,338", flights[0].CashPrice)
}

func TestRunnerIgnoresLogNoiseAroundPayload(t *testing.T) {
	script := writeScript(t, `echo "DevTools listening on ws://127.0.0.1"
echo '{"success": true, "flights": []}'
echo "chrome teardown"`)
	r := NewRunner("/bin/sh", script, "SpiceJet", time.Minute)

	flights, err := r.Run(context.Background(), "DEL", "BOM", "15-09-2026")
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestRunnerUnsuccessfulPayloadYieldsNoFlights(t *testing.T) {
	// A flights array only counts when the scraper claims success
	script := writeScript(t, `echo '{"success": false, "flights": [{"flight_number": "SG 1", "price_inr": "₹4,200"}]}'`)
	r := NewRunner("/bin/sh", script, "SpiceJet", time.Minute)

	flights, err := r.Run(context.Background(), "DEL", "BOM", "15-09-2026")
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestRunnerErrorObjectOnStderr(t *testing.T) {
	script := writeScript(t, `echo '{"error": "Invalid origin: XYZ"}' >&2
exit 1`)
	r := NewRunner("/bin/sh", script, "SpiceJet", time.Minute)

	_, err := r.Run(context.Background(), "XYZ", "BOM", "15-09-2026")
	require.Error(t, err)
	assert.Equal(t, "Invalid origin: XYZ", err.Error())
}

func TestRunnerErrorObjectOnStdout(t *testing.T) {
	script := writeScript(t, `echo '{"error": "Scraping failed: no results"}'`)
	r := NewRunner("/bin/sh", script, "SpiceJet", time.Minute)

	_, err := r.Run(context.Background(), "DEL", "BOM", "15-09-2026")
	require.Error(t, err)
	assert.Equal(t, "Scraping failed: no results", err.Error())
}

func TestRunnerAbnormalExitWithoutErrorObject(t *testing.T) {
	script := writeScript(t, `echo "Traceback (most recent call last):" >&2
exit 2`)
	r := NewRunner("/bin/sh", script, "SpiceJet", time.Minute)

	_, err := r.Run(context.Background(), "DEL", "BOM", "15-09-2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Traceback")
}

func TestRunnerTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	r := NewRunner("/bin/sh", script, "SpiceJet", 100*time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), "DEL", "BOM", "15-09-2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestNewRunnerDefaultTimeout(t *testing.T) {
	r := NewRunner("python3", "scraper.py", "SpiceJet", 0)
	assert.Equal(t, DefaultTimeout, r.Timeout)
}
