// Package cost turns live inventory and catalog prices into monthly
// cost estimates.
package cost

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"costpush/internal/models"
)

// Fixed 30-day month approximation, not calendar-accurate.
const (
	hoursPerDay  = 24
	daysPerMonth = 30
)

// Inventory reads one instance's shape and attached volumes.
// Satisfied by *aws.EC2Client.
type Inventory interface {
	InstanceType(ctx context.Context, instanceID string) (string, error)
	AttachedVolumes(ctx context.Context, instanceID string) ([]models.VolumeShape, error)
}

// PriceResolver resolves unit prices from the pricing catalog.
// Satisfied by *pricing.Client.
type PriceResolver interface {
	ComputePrice(ctx context.Context, instanceType, operatingSystem, region string) (float64, error)
	VolumePrice(ctx context.Context, volumeType, region string) (float64, error)
}

// Estimator computes per-instance monthly cost estimates for one
// region and operating system.
type Estimator struct {
	inventory       Inventory
	prices          PriceResolver
	region          string
	operatingSystem string
}

// NewEstimator wires an Estimator to its inventory and price collaborators.
func NewEstimator(inventory Inventory, prices PriceResolver, region, operatingSystem string) *Estimator {
	return &Estimator{
		inventory:       inventory,
		prices:          prices,
		region:          region,
		operatingSystem: operatingSystem,
	}
}

// EstimateInstanceCost computes the estimated monthly USD cost of one
// instance: hourly compute price over a 30-day month plus the
// GB-month price of every attached volume.
func (e *Estimator) EstimateInstanceCost(ctx context.Context, instanceID string) (models.InstanceCostRecord, error) {
	instanceType, err := e.inventory.InstanceType(ctx, instanceID)
	if err != nil {
		return models.InstanceCostRecord{}, err
	}

	volumes, err := e.inventory.AttachedVolumes(ctx, instanceID)
	if err != nil {
		return models.InstanceCostRecord{}, err
	}

	hourly, err := e.prices.ComputePrice(ctx, instanceType, e.operatingSystem, e.region)
	if err != nil {
		return models.InstanceCostRecord{}, fmt.Errorf("resolving compute price for %s: %w", instanceID, err)
	}
	monthlyCompute := hourly * hoursPerDay * daysPerMonth

	// Storage sums across all attached volumes.
	var monthlyStorage float64
	for _, volume := range volumes {
		unitPrice, err := e.prices.VolumePrice(ctx, volume.VolumeType, e.region)
		if err != nil {
			return models.InstanceCostRecord{}, fmt.Errorf("resolving volume price for %s: %w", instanceID, err)
		}
		monthlyStorage += unitPrice * float64(volume.SizeGiB)
	}

	record := models.InstanceCostRecord{
		InstanceID:         instanceID,
		InstanceType:       instanceType,
		Region:             e.region,
		Volumes:            volumes,
		HourlyComputePrice: hourly,
		MonthlyComputeCost: monthlyCompute,
		MonthlyStorageCost: monthlyStorage,
		MonthlyTotalCost:   monthlyCompute + monthlyStorage,
	}

	log.Info().
		Str("instance", instanceID).
		Str("type", instanceType).
		Float64("compute_monthly", monthlyCompute).
		Float64("storage_monthly", monthlyStorage).
		Float64("total_monthly", record.MonthlyTotalCost).
		Msg("Estimated instance cost")

	return record, nil
}
