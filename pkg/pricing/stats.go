package pricing

import "sync"

// Catalog call statistics, tracked per service and region so a run can
// report how much of its pricing came from cache versus the API.
var (
	apiStats     = make(map[string]map[string]map[string]int) // service -> region -> {success, failure, cache}
	apiStatsLock sync.RWMutex
)

// UpdateCacheHitStats records a price served from the process cache.
func UpdateCacheHitStats(service, region string) {
	updateAPIStats(service, region, "cache")
}

// UpdateAPISuccessStats records a successful catalog query.
func UpdateAPISuccessStats(service, region string) {
	updateAPIStats(service, region, "success")
}

// UpdateAPIFailureStats records a failed catalog query.
func UpdateAPIFailureStats(service, region string) {
	updateAPIStats(service, region, "failure")
}

func updateAPIStats(service, region, statType string) {
	apiStatsLock.Lock()
	defer apiStatsLock.Unlock()

	if _, exists := apiStats[service]; !exists {
		apiStats[service] = make(map[string]map[string]int)
	}

	if _, exists := apiStats[service][region]; !exists {
		apiStats[service][region] = map[string]int{
			"success": 0,
			"failure": 0,
			"cache":   0,
		}
	}

	apiStats[service][region][statType]++
}

// GetAPIStats returns a copy of the current pricing API statistics
func GetAPIStats() map[string]map[string]map[string]int {
	apiStatsLock.RLock()
	defer apiStatsLock.RUnlock()

	statsCopy := make(map[string]map[string]map[string]int)
	for service, regions := range apiStats {
		statsCopy[service] = make(map[string]map[string]int)
		for region, stats := range regions {
			statsCopy[service][region] = make(map[string]int)
			for key, value := range stats {
				statsCopy[service][region][key] = value
			}
		}
	}

	return statsCopy
}
