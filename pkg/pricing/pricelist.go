package pricing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// extractUnitPrice pulls the on-demand unit price out of a list of
// serialized product documents. Each document nests
// terms -> OnDemand -> <sku offer> -> priceDimensions -> <dimension> ->
// pricePerUnit -> <currency> -> amount.
//
// When a product carries more than one price dimension, the last
// dimension under sorted-key iteration wins. Map key order is sorted to
// keep the selection deterministic.
func extractUnitPrice(priceList []string) (float64, error) {
	var (
		price float64
		found bool
	)

	for _, product := range priceList {
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(product), &doc); err != nil {
			return 0, fmt.Errorf("parsing product document: %w", err)
		}

		terms, ok := doc["terms"].(map[string]interface{})
		if !ok {
			return 0, fmt.Errorf("terms field not found or invalid")
		}

		onDemand, ok := terms["OnDemand"].(map[string]interface{})
		if !ok {
			return 0, fmt.Errorf("OnDemand field not found or invalid")
		}

		for _, offerKey := range sortedKeys(onDemand) {
			offer, ok := onDemand[offerKey].(map[string]interface{})
			if !ok {
				continue
			}

			dimensions, ok := offer["priceDimensions"].(map[string]interface{})
			if !ok {
				continue
			}

			for _, dimKey := range sortedKeys(dimensions) {
				dimension, ok := dimensions[dimKey].(map[string]interface{})
				if !ok {
					continue
				}

				perUnit, ok := dimension["pricePerUnit"].(map[string]interface{})
				if !ok {
					continue
				}

				for _, currency := range sortedKeys(perUnit) {
					amount, ok := perUnit[currency].(string)
					if !ok {
						continue
					}

					parsed, err := strconv.ParseFloat(amount, 64)
					if err != nil {
						return 0, fmt.Errorf("parsing unit price %q: %w", amount, err)
					}

					price = parsed
					found = true
				}
			}
		}
	}

	if !found {
		return 0, fmt.Errorf("no usable price dimension in %d product(s)", len(priceList))
	}

	return price, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
