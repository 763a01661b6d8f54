package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"costpush/internal/models"
)

const costDateLayout = "2006-01-02"

// CostExplorerAPI is the slice of the Cost Explorer API the aggregator uses.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// CostExplorerClient aggregates an account's billed cost into
// per-calendar-month buckets.
type CostExplorerClient struct {
	api CostExplorerAPI
}

// InvalidAccountIDError indicates a malformed AWS account ID. It is
// raised before any external call is made.
type InvalidAccountIDError struct {
	AccountID string
}

func (e *InvalidAccountIDError) Error() string {
	return fmt.Sprintf("invalid AWS account ID %q: must be exactly 12 digits", e.AccountID)
}

// CostDataFormatError wraps any parsing failure of a cost-and-usage
// response. Callers see one error kind regardless of the underlying
// cause; the cause stays attached for diagnostics.
type CostDataFormatError struct {
	cause error
}

func (e *CostDataFormatError) Error() string {
	return fmt.Sprintf("malformed cost and usage data: %v", e.cause)
}

func (e *CostDataFormatError) Unwrap() error {
	return e.cause
}

// NewCostExplorerClient creates a Cost Explorer client using the
// default credential chain.
func NewCostExplorerClient(ctx context.Context) (*CostExplorerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for cost explorer: %w", err)
	}

	return &CostExplorerClient{api: costexplorer.NewFromConfig(cfg)}, nil
}

// NewCostExplorerClientWithAPI wires the client to an existing API, used by tests.
func NewCostExplorerClientWithAPI(api CostExplorerAPI) *CostExplorerClient {
	return &CostExplorerClient{api: api}
}

// ValidAccountID reports whether id is exactly 12 numeric characters.
func ValidAccountID(id string) bool {
	if len(id) != 12 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AggregateMonthlyCost queries the unblended cost of one account over
// [start, end) at monthly granularity and folds the response into a
// month-name-keyed summary. Credits and refunds are excluded by the
// query filter.
func (c *CostExplorerClient) AggregateMonthlyCost(ctx context.Context, accountID string, start, end time.Time) (models.MonthlyCostSummary, error) {
	if !ValidAccountID(accountID) {
		return nil, &InvalidAccountIDError{AccountID: accountID}
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format(costDateLayout)),
			End:   aws.String(end.Format(costDateLayout)),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []types.GroupDefinition{{
			Type: types.GroupDefinitionTypeDimension,
			Key:  aws.String("LINKED_ACCOUNT"),
		}},
		Filter: &types.Expression{
			And: []types.Expression{
				{
					Dimensions: &types.DimensionValues{
						Key:    types.DimensionLinkedAccount,
						Values: []string{accountID},
					},
				},
				{
					Not: &types.Expression{
						CostCategories: &types.CostCategoryValues{
							Key:    aws.String("ChargeType"),
							Values: []string{"Credit", "Refund"},
						},
					},
				},
			},
		},
	}

	resp, err := c.api.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying cost and usage for account %s: %w", accountID, err)
	}

	return foldMonthly(resp.ResultsByTime)
}

// foldMonthly accumulates time-bucketed results into a summary keyed
// by calendar month name. Buckets from different years that share a
// month name collapse into one entry by addition.
func foldMonthly(results []types.ResultByTime) (models.MonthlyCostSummary, error) {
	summary := make(models.MonthlyCostSummary, len(results))

	for _, result := range results {
		if result.TimePeriod == nil || result.TimePeriod.Start == nil {
			return nil, &CostDataFormatError{cause: fmt.Errorf("result bucket has no start date")}
		}

		startDate, err := time.Parse(costDateLayout, *result.TimePeriod.Start)
		if err != nil {
			return nil, &CostDataFormatError{cause: err}
		}
		monthName := startDate.Month().String()

		amount, err := bucketAmount(result)
		if err != nil {
			return nil, &CostDataFormatError{cause: err}
		}

		summary[monthName] += amount
	}

	return summary, nil
}

// bucketAmount picks the first group's amount when the bucket carries
// per-group metrics, the bucket total otherwise.
func bucketAmount(result types.ResultByTime) (float64, error) {
	var metric types.MetricValue
	if len(result.Groups) > 0 {
		var ok bool
		metric, ok = result.Groups[0].Metrics["UnblendedCost"]
		if !ok {
			return 0, fmt.Errorf("group metrics missing UnblendedCost")
		}
	} else {
		var ok bool
		metric, ok = result.Total["UnblendedCost"]
		if !ok {
			return 0, fmt.Errorf("bucket total missing UnblendedCost")
		}
	}

	if metric.Amount == nil {
		return 0, fmt.Errorf("UnblendedCost has no amount")
	}

	amount, err := strconv.ParseFloat(*metric.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", *metric.Amount, err)
	}

	return amount, nil
}

// DefaultDateRange returns the range from the first day of the current
// calendar year through today.
func DefaultDateRange(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return start, now
}
