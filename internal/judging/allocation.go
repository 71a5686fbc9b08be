package judging

import (
	"math"
	"math/rand"
	"strings"

	"github.com/abrezinsky/hackjudge/internal/errors"
)

// Location is a named area that receives a percentage share of teams.
type Location struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// LocationSlots builds one location name per team, in location order.
//
// Weights are scaled to sum to 100, each location gets round(p/100*n) slots,
// and the list is padded with the first location or cut from the end so it
// has exactly n entries. Rounding is only corrected in aggregate.
func LocationSlots(locations []Location, n int) ([]string, error) {
	if len(locations) == 0 {
		return nil, errors.Validation("at least one location is required")
	}
	if n < 0 {
		return nil, errors.Validation("team count must not be negative")
	}

	var sum float64
	for _, loc := range locations {
		if strings.TrimSpace(loc.Name) == "" {
			return nil, errors.Validation("location name must not be empty")
		}
		if loc.Percentage < 0 || math.IsNaN(loc.Percentage) {
			return nil, errors.Validationf("location %q has a negative percentage", loc.Name)
		}
		sum += loc.Percentage
	}
	if sum == 0 {
		return nil, errors.Validation("location percentages must not all be zero")
	}

	scale := 1.0
	if sum != 100 {
		scale = 100 / sum
	}

	slots := make([]string, 0, n)
	for _, loc := range locations {
		count := int(math.Round(loc.Percentage * scale / 100 * float64(n)))
		for i := 0; i < count; i++ {
			slots = append(slots, loc.Name)
		}
	}

	for len(slots) < n {
		slots = append(slots, locations[0].Name)
	}
	return slots[:n], nil
}

// AllocateLocations returns LocationSlots shuffled uniformly with rng.
func AllocateLocations(locations []Location, n int, rng *rand.Rand) ([]string, error) {
	slots, err := LocationSlots(locations, n)
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})
	return slots, nil
}
