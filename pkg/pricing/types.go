package pricing

import (
	"context"
	"fmt"
	"sync"

	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"

	"costpush/internal/models"
)

// CatalogAPI is the slice of the AWS Pricing API the resolver needs.
// Satisfied by *pricing.Client; tests substitute a call-counting fake.
type CatalogAPI interface {
	GetProducts(ctx context.Context, params *awspricing.GetProductsInput, optFns ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error)
}

// Client resolves on-demand unit prices from the AWS pricing catalog.
// Resolved prices are cached for the lifetime of the process and never
// invalidated; pricing changes are rare relative to process lifetime,
// so staleness in a long-running process is accepted.
type Client struct {
	api     CatalogAPI
	regions *RegionTranslator

	mu           sync.RWMutex
	computeCache map[models.ResourceShape]float64
	volumeCache  map[string]float64
}

// PriceNotFoundError indicates the pricing catalog returned zero
// products for a lookup. An empty catalog response aborts the
// enclosing cost estimate; it is never treated as a zero price.
type PriceNotFoundError struct {
	ResourceType string
	Region       string
}

func (e *PriceNotFoundError) Error() string {
	return fmt.Sprintf("no pricing found for %s in region %s", e.ResourceType, e.Region)
}

// NewClient returns a Client backed by the given catalog API and
// region translator.
func NewClient(api CatalogAPI, regions *RegionTranslator) *Client {
	return &Client{
		api:          api,
		regions:      regions,
		computeCache: make(map[models.ResourceShape]float64),
		volumeCache:  make(map[string]float64),
	}
}
