package pricing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is a call-counting CatalogAPI stand-in.
type fakeCatalog struct {
	calls     int
	lastInput *awspricing.GetProductsInput
	priceList []string
	err       error
}

func (f *fakeCatalog) GetProducts(ctx context.Context, params *awspricing.GetProductsInput, optFns ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error) {
	f.calls++
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &awspricing.GetProductsOutput{PriceList: f.priceList}, nil
}

func (f *fakeCatalog) filterValue(field string) string {
	if f.lastInput == nil {
		return ""
	}
	for _, filter := range f.lastInput.Filters {
		if aws.ToString(filter.Field) == field {
			return aws.ToString(filter.Value)
		}
	}
	return ""
}

func writeEndpointsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "endpoints.json")
	doc := `{"partitions":[{"regions":{
		"ap-southeast-2":{"description":"Asia Pacific (Sydney)"},
		"eu-west-1":{"description":"EU (Ireland)"}
	}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func newTestClient(t *testing.T, catalog *fakeCatalog) *Client {
	t.Helper()
	return NewClient(catalog, NewRegionTranslator(writeEndpointsFile(t)))
}

func TestComputePriceFilters(t *testing.T) {
	catalog := &fakeCatalog{priceList: []string{productDoc("0.0104")}}
	client := newTestClient(t, catalog)

	price, err := client.ComputePrice(context.Background(), "t3.micro", "Linux", "ap-southeast-2")
	require.NoError(t, err)
	assert.InDelta(t, 0.0104, price, 1e-9)

	require.NotNil(t, catalog.lastInput)
	assert.Equal(t, "AmazonEC2", aws.ToString(catalog.lastInput.ServiceCode))
	assert.Equal(t, "t3.micro", catalog.filterValue("instanceType"))
	assert.Equal(t, "Linux", catalog.filterValue("operatingSystem"))
	assert.Equal(t, "Asia Pacific (Sydney)", catalog.filterValue("location"))
	assert.Equal(t, "shared", catalog.filterValue("tenancy"))
	assert.Equal(t, "NA", catalog.filterValue("preInstalledSw"))
	assert.Equal(t, "Used", catalog.filterValue("capacitystatus"))
	assert.Equal(t, "EBS only", catalog.filterValue("storage"))
	assert.Equal(t, "OnDemand", catalog.filterValue("marketoption"))
	assert.Equal(t, "No License required", catalog.filterValue("licenseModel"))
}

func TestComputePriceMemoized(t *testing.T) {
	catalog := &fakeCatalog{priceList: []string{productDoc("0.0104")}}
	client := newTestClient(t, catalog)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		price, err := client.ComputePrice(ctx, "t3.micro", "Linux", "ap-southeast-2")
		require.NoError(t, err)
		assert.InDelta(t, 0.0104, price, 1e-9)
	}
	assert.Equal(t, 1, catalog.calls, "identical lookups must hit the catalog once")

	// A different shape is a fresh lookup.
	_, err := client.ComputePrice(ctx, "t3.small", "Linux", "ap-southeast-2")
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.calls)
}

func TestComputePriceNotFound(t *testing.T) {
	catalog := &fakeCatalog{priceList: nil}
	client := newTestClient(t, catalog)

	_, err := client.ComputePrice(context.Background(), "t9.imaginary", "Linux", "ap-southeast-2")
	require.Error(t, err)

	var notFound *PriceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "t9.imaginary", notFound.ResourceType)
	assert.Equal(t, "ap-southeast-2", notFound.Region)
}

func TestComputePriceAPIError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("throttled")}
	client := newTestClient(t, catalog)

	_, err := client.ComputePrice(context.Background(), "t3.micro", "Linux", "ap-southeast-2")
	require.ErrorContains(t, err, "throttled")
}

func TestVolumePriceStandardSkipsCatalog(t *testing.T) {
	catalog := &fakeCatalog{}
	client := newTestClient(t, catalog)

	price, err := client.VolumePrice(context.Background(), "standard", "ap-southeast-2")
	require.NoError(t, err)
	assert.InDelta(t, StandardVolumePrice, price, 1e-9)
	assert.Equal(t, 0, catalog.calls, "standard volumes must not query the catalog")
}

func TestVolumePriceUsagetypeFilter(t *testing.T) {
	tests := []struct {
		volumeType string
		usagetype  string
	}{
		{"gp3", "EBS:VolumeUsage.gp3"},
		{"gp2", "EBS:VolumeUsage.gp2"},
		{"io2", "EBS:VolumeUsage.io2"},
		{"sc1", "EBS:VolumeUsage.sc1"},
	}

	for _, tt := range tests {
		t.Run(tt.volumeType, func(t *testing.T) {
			catalog := &fakeCatalog{priceList: []string{productDoc("0.08")}}
			client := newTestClient(t, catalog)

			price, err := client.VolumePrice(context.Background(), tt.volumeType, "ap-southeast-2")
			require.NoError(t, err)
			assert.InDelta(t, 0.08, price, 1e-9)
			assert.Equal(t, tt.usagetype, catalog.filterValue("usagetype"))
			assert.Equal(t, "Asia Pacific (Sydney)", catalog.filterValue("location"))
		})
	}
}

func TestVolumePriceMemoized(t *testing.T) {
	catalog := &fakeCatalog{priceList: []string{productDoc("0.08")}}
	client := newTestClient(t, catalog)
	ctx := context.Background()

	_, err := client.VolumePrice(ctx, "gp3", "ap-southeast-2")
	require.NoError(t, err)
	_, err = client.VolumePrice(ctx, "gp3", "ap-southeast-2")
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.calls)
}
