package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMAPI is the slice of the SSM API the parameter store uses.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads configuration values (such as the target
// account ID) from SSM Parameter Store.
type ParameterStore struct {
	api SSMAPI
}

// NewParameterStore creates a ParameterStore using the default
// credential chain.
func NewParameterStore(ctx context.Context) (*ParameterStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SSM: %w", err)
	}

	return &ParameterStore{api: ssm.NewFromConfig(cfg)}, nil
}

// NewParameterStoreWithAPI wires the store to an existing API, used by tests.
func NewParameterStoreWithAPI(api SSMAPI) *ParameterStore {
	return &ParameterStore{api: api}
}

// Get returns the decrypted value of the named parameter.
func (s *ParameterStore) Get(ctx context.Context, name string) (string, error) {
	resp, err := s.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("reading parameter %s: %w", name, err)
	}

	if resp.Parameter == nil || resp.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}

	return *resp.Parameter.Value, nil
}
