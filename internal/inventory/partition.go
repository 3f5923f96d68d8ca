package inventory

import (
	"strings"

	"dealerfeeds/internal/models"
)

// Group is the inventory of one configured dealership.
type Group struct {
	Dealership *models.Dealership
	Records    []models.VehicleRecord
}

// Partition groups records by their trimmed DealerID. Groups follow the order
// of dealerships and every dealership gets a group, possibly empty. Records
// for unknown dealers are dropped and counted.
func Partition(records []models.VehicleRecord, dealerships []models.Dealership) ([]Group, int) {
	groups := make([]Group, len(dealerships))
	index := make(map[string]int, len(dealerships))

	for i := range dealerships {
		groups[i] = Group{Dealership: &dealerships[i], Records: []models.VehicleRecord{}}
		id := strings.TrimSpace(dealerships[i].ID)

		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}

	dropped := 0

	for _, record := range records {
		i, ok := index[record.Value(models.FieldDealerID)]
		if !ok {
			dropped++
			continue
		}

		groups[i].Records = append(groups[i].Records, record)
	}

	return groups, dropped
}

// Count returns the number of records across all groups.
func Count(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += len(g.Records)
	}

	return total
}
