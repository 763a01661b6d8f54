package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSAPI is the slice of the STS API used for identity resolution.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// STSClient resolves the caller's own account ID, used when no account
// ID is supplied externally.
type STSClient struct {
	api STSAPI
}

// NewSTSClient creates an STSClient using the default credential chain.
func NewSTSClient(ctx context.Context) (*STSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for STS: %w", err)
	}

	return &STSClient{api: sts.NewFromConfig(cfg)}, nil
}

// NewSTSClientWithAPI wires the client to an existing API, used by tests.
func NewSTSClientWithAPI(api STSAPI) *STSClient {
	return &STSClient{api: api}
}

// CallerAccountID returns the account ID of the current credentials.
func (c *STSClient) CallerAccountID(ctx context.Context) (string, error) {
	resp, err := c.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("resolving caller identity: %w", err)
	}

	return aws.ToString(resp.Account), nil
}
