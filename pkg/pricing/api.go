package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

// The AWS Pricing API is only served from us-east-1 and ap-south-1.
const pricingAPIRegion = "us-east-1"

// NewCatalogAPI builds the real AWS Pricing API client, pinned to the
// region the Pricing API is served from.
func NewCatalogAPI(ctx context.Context) (CatalogAPI, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(pricingAPIRegion))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for pricing API: %w", err)
	}

	return awspricing.NewFromConfig(cfg), nil
}

// termMatch builds an exact-match catalog filter.
func termMatch(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

// getProducts runs one catalog query and returns the serialized
// product documents. An empty result is reported through
// PriceNotFoundError so callers never mistake it for a free resource.
func (c *Client) getProducts(ctx context.Context, serviceCode string, filters []types.Filter, resourceType, region string) ([]string, error) {
	input := &awspricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(100),
	}

	resp, err := c.api.GetProducts(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("calling AWS Pricing API: %w", err)
	}

	if len(resp.PriceList) == 0 {
		return nil, &PriceNotFoundError{ResourceType: resourceType, Region: region}
	}

	return resp.PriceList, nil
}
