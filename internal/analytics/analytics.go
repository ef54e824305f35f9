// Package analytics computes the aggregates dashboards render over the
// cleaned dataset: counts, group means, modes and price extremes.
package analytics

import (
	"errors"
	"sort"

	"sjsage522/carcrawler/internal/dataset"
)

// ErrNoData is returned when a selection has nothing to aggregate
var ErrNoData = errors.New("analytics: no data")

// KeyFunc extracts a categorical value; empty strings are skipped
type KeyFunc func(dataset.CleanedListing) string

// ValueFunc extracts a numeric value; nil is skipped
type ValueFunc func(dataset.CleanedListing) *float64

// Common categorical keys
var (
	ByModel        KeyFunc = func(l dataset.CleanedListing) string { return l.Model }
	ByBodyType     KeyFunc = func(l dataset.CleanedListing) string { return l.BodyType }
	ByColor        KeyFunc = func(l dataset.CleanedListing) string { return l.Color }
	ByTransmission KeyFunc = func(l dataset.CleanedListing) string { return l.Transmission }
	ByFuelType     KeyFunc = func(l dataset.CleanedListing) string { return l.MotorFuelType }
)

// Common numeric values
var (
	Price   ValueFunc = func(l dataset.CleanedListing) *float64 { return l.PriceAmount }
	Mileage ValueFunc = func(l dataset.CleanedListing) *float64 { return l.MileageAmount }
)

// Filter returns the listings matching every predicate
func Filter(listings []dataset.CleanedListing, preds ...func(dataset.CleanedListing) bool) []dataset.CleanedListing {
	var out []dataset.CleanedListing
next:
	for _, l := range listings {
		for _, p := range preds {
			if !p(l) {
				continue next
			}
		}
		out = append(out, l)
	}
	return out
}

// In returns a predicate matching listings whose key is one of values.
// No values selects everything, like an untouched multi-select filter.
func In(key KeyFunc, values ...string) func(dataset.CleanedListing) bool {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(l dataset.CleanedListing) bool {
		if len(set) == 0 {
			return true
		}
		_, ok := set[key(l)]
		return ok
	}
}

// CountBy counts listings per key
func CountBy(listings []dataset.CleanedListing, key KeyFunc) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		if k := key(l); k != "" {
			counts[k]++
		}
	}
	return counts
}

// MeanBy averages value per key, ignoring missing values
func MeanBy(listings []dataset.CleanedListing, key KeyFunc, value ValueFunc) (map[string]float64, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, l := range listings {
		k, v := key(l), value(l)
		if k == "" || v == nil {
			continue
		}
		sums[k] += *v
		counts[k]++
	}
	if len(counts) == 0 {
		return nil, ErrNoData
	}

	means := make(map[string]float64, len(sums))
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means, nil
}

// Mode returns the most frequent key; ties go to the lexically smallest
func Mode(listings []dataset.CleanedListing, key KeyFunc) (string, error) {
	counts := CountBy(listings, key)
	if len(counts) == 0 {
		return "", ErrNoData
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, nil
}

// MinMaxPrice returns the cheapest and the most expensive listing.
// The first listing wins ties.
func MinMaxPrice(listings []dataset.CleanedListing) (cheapest, priciest dataset.CleanedListing, err error) {
	found := false
	for _, l := range listings {
		if l.PriceAmount == nil {
			continue
		}
		if !found {
			cheapest, priciest, found = l, l, true
			continue
		}
		if *l.PriceAmount < *cheapest.PriceAmount {
			cheapest = l
		}
		if *l.PriceAmount > *priciest.PriceAmount {
			priciest = l
		}
	}
	if !found {
		return cheapest, priciest, ErrNoData
	}
	return cheapest, priciest, nil
}
