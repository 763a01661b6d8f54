package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"costpush/internal/models"
)

// EC2API is the slice of the EC2 API the inventory client uses.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
}

// EC2Client reads the live compute inventory for one region.
type EC2Client struct {
	api    EC2API
	region string
}

// NewEC2Client creates an EC2Client for the given region.
func NewEC2Client(ctx context.Context, region string) (*EC2Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for region %s: %w", region, err)
	}

	return &EC2Client{
		api:    ec2.NewFromConfig(cfg),
		region: region,
	}, nil
}

// NewEC2ClientWithAPI wires an EC2Client to an existing API, used by tests.
func NewEC2ClientWithAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{api: api, region: region}
}

// Region returns the region this client reads inventory from.
func (c *EC2Client) Region() string {
	return c.region
}

// ListInstanceIDs returns the IDs of all instances in the region,
// optionally scoped to the given VPCs.
func (c *EC2Client) ListInstanceIDs(ctx context.Context, vpcIDs []string) ([]string, error) {
	input := &ec2.DescribeInstancesInput{}
	if len(vpcIDs) > 0 {
		input.Filters = []types.Filter{{
			Name:   aws.String("vpc-id"),
			Values: vpcIDs,
		}}
	}

	var ids []string
	paginator := ec2.NewDescribeInstancesPaginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				ids = append(ids, *instance.InstanceId)
			}
		}
	}

	return ids, nil
}

// InstanceType returns the instance type of a single instance.
func (c *EC2Client) InstanceType(ctx context.Context, instanceID string) (string, error) {
	input := &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	}

	result, err := c.api.DescribeInstances(ctx, input)
	if err != nil {
		return "", fmt.Errorf("describing instance %s: %w", instanceID, err)
	}

	for _, reservation := range result.Reservations {
		for _, instance := range reservation.Instances {
			return string(instance.InstanceType), nil
		}
	}

	return "", fmt.Errorf("instance %s not found", instanceID)
}

// AttachedVolumes returns the type and size of every EBS volume
// attached to the instance.
func (c *EC2Client) AttachedVolumes(ctx context.Context, instanceID string) ([]models.VolumeShape, error) {
	input := &ec2.DescribeVolumesInput{
		Filters: []types.Filter{{
			Name:   aws.String("attachment.instance-id"),
			Values: []string{instanceID},
		}},
	}

	result, err := c.api.DescribeVolumes(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("describing volumes of %s: %w", instanceID, err)
	}

	volumes := make([]models.VolumeShape, 0, len(result.Volumes))
	for _, volume := range result.Volumes {
		volumes = append(volumes, models.VolumeShape{
			VolumeType: string(volume.VolumeType),
			SizeGiB:    aws.ToInt32(volume.Size),
		})
	}

	return volumes, nil
}
