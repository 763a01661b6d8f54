package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"costpush/internal/models"
)

// ComputePrice returns the on-demand hourly USD price for an EC2
// instance shape. Repeated lookups for the same shape within a process
// never re-query the catalog.
func (c *Client) ComputePrice(ctx context.Context, instanceType, operatingSystem, region string) (float64, error) {
	cacheKey := models.ResourceShape{
		InstanceType:    instanceType,
		OperatingSystem: operatingSystem,
		Region:          region,
	}

	c.mu.RLock()
	if price, ok := c.computeCache[cacheKey]; ok {
		c.mu.RUnlock()
		UpdateCacheHitStats("EC2", region)
		return price, nil
	}
	c.mu.RUnlock()

	// Exact-match filter set for a shared-tenancy, license-free,
	// EBS-only on-demand instance. Anything looser matches more than
	// one price dimension and is unsupported.
	filters := []types.Filter{
		termMatch("tenancy", "shared"),
		termMatch("operatingSystem", operatingSystem),
		termMatch("preInstalledSw", "NA"),
		termMatch("instanceType", instanceType),
		termMatch("location", c.regions.Resolve(region)),
		termMatch("capacitystatus", "Used"),
		termMatch("storage", "EBS only"),
		termMatch("marketoption", "OnDemand"),
		termMatch("licenseModel", "No License required"),
	}

	priceList, err := c.getProducts(ctx, "AmazonEC2", filters, instanceType, region)
	if err != nil {
		UpdateAPIFailureStats("EC2", region)
		return 0, err
	}

	price, err := extractUnitPrice(priceList)
	if err != nil {
		UpdateAPIFailureStats("EC2", region)
		return 0, fmt.Errorf("extracting price for %s: %w", instanceType, err)
	}
	UpdateAPISuccessStats("EC2", region)

	c.mu.Lock()
	c.computeCache[cacheKey] = price
	c.mu.Unlock()

	return price, nil
}
