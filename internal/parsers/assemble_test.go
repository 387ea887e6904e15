package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flypoints/internal/models"
)

func pricedFlight(number, cash string) models.Flight {
	f := models.NewFlight("IndiGo")
	f.FlightNumber = number
	f.CashPrice = cash
	return f
}

func cashPrices(flights []models.Flight) []string {
	out := make([]string, len(flights))
	for i, f := range flights {
		out[i] = f.CashPrice
	}
	return out
}

func TestSortByPrice(t *testing.T) {
	flights := []models.Flight{
		pricedFlight("6E 1", "N/A"),
		pricedFlight("6E 2", "₹5,000"),
		pricedFlight("6E 3", "₹1,200"),
	}

	SortByPrice(flights)

	assert.Equal(t, []string{"₹1,200", "₹5,000", "N/A"}, cashPrices(flights))
}

func TestSortByPriceUnpricedVariantsLast(t *testing.T) {
	flights := []models.Flight{
		pricedFlight("EK 1", "Check website"),
		pricedFlight("EK 2", "₹1,23,456"),
		pricedFlight("EK 3", "N/A"),
		pricedFlight("EK 4", "₹999"),
	}

	SortByPrice(flights)

	assert.Equal(t, []string{"₹999", "₹1,23,456", "Check website", "N/A"}, cashPrices(flights))
}

func TestSortByPriceStable(t *testing.T) {
	// Equal fares keep their discovery order
	flights := []models.Flight{
		pricedFlight("6E 10", "₹2,000"),
		pricedFlight("6E 11", "₹2,000"),
		pricedFlight("6E 12", "₹1,000"),
	}

	SortByPrice(flights)

	assert.Equal(t, "6E 12", flights[0].FlightNumber)
	assert.Equal(t, "6E 10", flights[1].FlightNumber)
	assert.Equal(t, "6E 11", flights[2].FlightNumber)
}

func TestSortByPriceEmpty(t *testing.T) {
	SortByPrice(nil)
	SortByPrice([]models.Flight{})
}
