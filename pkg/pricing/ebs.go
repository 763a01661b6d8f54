package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

// StandardVolumePrice is the USD per GB-month price used for magnetic
// (standard) volumes. The usagetype filter shape cannot resolve them
// uniquely and they are rarely used, so the price is fixed.
const StandardVolumePrice = 0.05

// VolumePrice returns the USD per GB-month price for an EBS volume
// type code (gp3, io2, ...). Results are cached per (type, region) for
// the process lifetime.
func (c *Client) VolumePrice(ctx context.Context, volumeType, region string) (float64, error) {
	if volumeType == "standard" {
		return StandardVolumePrice, nil
	}

	cacheKey := fmt.Sprintf("ebs:%s:%s", volumeType, region)

	c.mu.RLock()
	if price, ok := c.volumeCache[cacheKey]; ok {
		c.mu.RUnlock()
		UpdateCacheHitStats("EBS", region)
		return price, nil
	}
	c.mu.RUnlock()

	filters := []types.Filter{
		termMatch("usagetype", fmt.Sprintf("EBS:VolumeUsage.%s", volumeType)),
		termMatch("location", c.regions.Resolve(region)),
	}

	priceList, err := c.getProducts(ctx, "AmazonEC2", filters, volumeType, region)
	if err != nil {
		UpdateAPIFailureStats("EBS", region)
		return 0, err
	}

	price, err := extractUnitPrice(priceList)
	if err != nil {
		UpdateAPIFailureStats("EBS", region)
		return 0, fmt.Errorf("extracting price for volume type %s: %w", volumeType, err)
	}
	UpdateAPISuccessStats("EBS", region)

	c.mu.Lock()
	c.volumeCache[cacheKey] = price
	c.mu.Unlock()

	return price, nil
}
