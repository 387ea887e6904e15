// Package scraper runs the fare-search subprocesses and turns their output
// into normalized flight records.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"flypoints/internal/models"
	"flypoints/internal/parsers"
)

// DefaultTimeout bounds one scrape run end to end. Headless browser startup
// plus page load regularly takes minutes.
const DefaultTimeout = 5 * time.Minute

// Runner executes one fare-search script. It is stateless: independent
// runners may run concurrently with independent timeouts and outcomes.
type Runner struct {
	PythonBin string        // interpreter, e.g. "python3"
	Script    string        // path to the scraper script
	Airline   string        // airline name used when the payload omits one
	Timeout   time.Duration // wall-clock ceiling; DefaultTimeout when zero
}

// NewRunner creates a runner for the given scraper script.
func NewRunner(pythonBin, script, airline string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		PythonBin: pythonBin,
		Script:    script,
		Airline:   airline,
		Timeout:   timeout,
	}
}

// Run scrapes one route. The date is in the DD-MM-YYYY form the scripts
// expect. On timeout the subprocess is killed and the run reported as a
// failure; stderr is consulted for a structured error before falling back to
// a generic exit diagnostic.
func (r *Runner) Run(ctx context.Context, origin, destination, date string) ([]models.Flight, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.PythonBin, r.Script, origin, destination, date)
	cmd.Dir = filepath.Dir(r.Script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Info("Starting scrape",
		"airline", r.Airline,
		"origin", origin,
		"destination", destination,
		"date", date,
	)

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("scraping timeout after %s", r.Timeout)
	}
	if err != nil {
		if msg := parsers.ParseErrorObject(stderr.String()); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, fmt.Errorf("scraper exited abnormally (%w): %s", err, sample(stderr.String(), stdout.String()))
	}

	result, err := parsers.DecodeScraperOutput(stdout.String())
	if err != nil {
		// The payload was unusable; a structured stderr error is a better
		// diagnostic than the raw decode failure.
		if msg := parsers.ParseErrorObject(stderr.String()); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, err
	}
	if result.Error != "" {
		return nil, errors.New(result.Error)
	}

	// Flights count only when the scraper claims success; a payload with
	// success unset is a zero-result run, whatever its flights array holds.
	var flights []models.Flight
	if result.Success {
		flights = parsers.ConvertScraperFlights(result.Flights, r.Airline)
	}
	slog.Info("Scrape finished",
		"airline", r.Airline,
		"raw_flights", len(result.Flights),
		"flights", len(flights),
	)
	return flights, nil
}

// sample picks whichever stream has content and truncates it for error
// messages.
func sample(stderr, stdout string) string {
	s := stderr
	if s == "" {
		s = stdout
	}
	if len(s) > 500 {
		s = s[:500] + "..."
	}
	return s
}
