package parsers

import (
	"sort"

	"flypoints/internal/models"
	"flypoints/internal/price"
)

// unpricedRank sorts records with no usable cash price after every real fare.
const unpricedRank = int64(999999999)

// SortByPrice orders flights by ascending cash price, in place. Records whose
// price is "N/A" or unparsable go last, not first; ties keep their original
// order so per-source discovery order survives the merge.
func SortByPrice(flights []models.Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return priceRank(flights[i]) < priceRank(flights[j])
	})
}

func priceRank(f models.Flight) int64 {
	n, err := price.ParseAmount(f.CashPrice)
	if err != nil || n <= 0 {
		return unpricedRank
	}
	return n
}
