package pricing

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultRegionName is returned whenever a region code cannot be
// translated. A translation-table gap must never abort a pricing
// lookup, so resolution falls back instead of failing the caller.
const DefaultRegionName = "EU (Ireland)"

// endpointsDoc is the slice of an endpoints.json document the
// translator reads: partitions, each with a region code to
// description table.
type endpointsDoc struct {
	Partitions []struct {
		Regions map[string]struct {
			Description string `json:"description"`
		} `json:"regions"`
	} `json:"partitions"`
}

// RegionTranslator maps short region codes (ap-southeast-2) to the
// human-readable location names the pricing catalog indexes by
// (Asia Pacific (Sydney)). The table is loaded lazily, once, and kept
// for the process lifetime; lookups are memoized per code.
type RegionTranslator struct {
	path string

	once  sync.Once
	table map[string]string

	mu    sync.RWMutex
	cache map[string]string
}

// NewRegionTranslator returns a translator that loads its table from
// the endpoints document at path on first use.
func NewRegionTranslator(path string) *RegionTranslator {
	return &RegionTranslator{
		path:  path,
		cache: make(map[string]string),
	}
}

// Resolve translates a region code to its descriptive name. Any
// failure (missing file, malformed document, unknown code) resolves to
// DefaultRegionName.
func (t *RegionTranslator) Resolve(regionCode string) string {
	t.mu.RLock()
	if name, ok := t.cache[regionCode]; ok {
		t.mu.RUnlock()
		return name
	}
	t.mu.RUnlock()

	t.once.Do(t.load)

	name, ok := t.table[regionCode]
	if !ok {
		log.Warn().Str("region", regionCode).Str("fallback", DefaultRegionName).
			Msg("Region code not in endpoints table, using fallback region name")
		name = DefaultRegionName
	}

	t.mu.Lock()
	t.cache[regionCode] = name
	t.mu.Unlock()

	return name
}

func (t *RegionTranslator) load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		log.Warn().Err(err).Str("path", t.path).
			Msg("Could not read endpoints file, all regions resolve to the fallback name")
		return
	}

	var doc endpointsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("path", t.path).
			Msg("Could not parse endpoints file, all regions resolve to the fallback name")
		return
	}

	if len(doc.Partitions) == 0 {
		log.Warn().Str("path", t.path).Msg("Endpoints file has no partitions")
		return
	}

	table := make(map[string]string, len(doc.Partitions[0].Regions))
	for code, region := range doc.Partitions[0].Regions {
		table[code] = region.Description
	}
	t.table = table
}
