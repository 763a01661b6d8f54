package models

// ResourceShape identifies a compute price lookup. Immutable once built.
type ResourceShape struct {
	InstanceType    string
	OperatingSystem string
	Region          string
}

// VolumeShape describes one EBS volume attached to an instance
type VolumeShape struct {
	VolumeType string
	SizeGiB    int32
}

// InstanceCostRecord holds the estimated monthly cost breakdown for a
// single EC2 instance. Recomputed on every run, never persisted.
type InstanceCostRecord struct {
	InstanceID         string
	InstanceType       string
	Region             string
	Volumes            []VolumeShape
	HourlyComputePrice float64
	MonthlyComputeCost float64
	MonthlyStorageCost float64
	MonthlyTotalCost   float64
}
