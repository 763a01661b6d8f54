package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"costpush/internal/models"
	"costpush/internal/version"
	"costpush/pkg/aws"
	"costpush/pkg/cost"
	"costpush/pkg/formatter"
	"costpush/pkg/metrics"
	"costpush/pkg/pricing"
)

const (
	DefaultRegion  = "ap-southeast-2"
	DefaultService = "instances"
)

var (
	regions         []string
	services        []string
	vpcIDs          []string
	operatingSystem string
	accountID       string
	accountParam    string
	gateway         string
	job             string
	pushEstimates   bool
	archiveBucket   string
	archiveKey      string
	endpointsFile   string
	showVersion     bool
)

var serviceDescriptions = map[string]string{
	"instances": "Estimate the monthly cost of running EC2 instances and their volumes",
	"account":   "Aggregate the account's billed cost by calendar month and push it",
}

// startScanSpinner creates and starts a spinner with a message for the given scope
func startScanSpinner(scope string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Collecting %s cost data ...", scope)
	s.Start()
	return s
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd := &cobra.Command{
		Use:   "costpush",
		Short: "Estimate AWS costs and push them to a Prometheus Pushgateway",
		Long: `costpush estimates the running monthly cost of EC2 compute and EBS
storage from live inventory and the AWS Pricing API, aggregates the
account's billed cost from Cost Explorer into calendar-month buckets,
and publishes both as gauges to a Prometheus Pushgateway.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				info := version.Get()
				fmt.Printf("costpush %s (built %s, commit %s, %s)\n",
					info.Version, info.BuildDate, info.GitCommit, info.GoVersion)
				return nil
			}

			if len(regions) == 0 {
				regions = []string{DefaultRegion}
			}
			if len(services) == 0 {
				services = []string{DefaultService}
			}

			for _, service := range services {
				if _, ok := serviceDescriptions[service]; !ok {
					return fmt.Errorf("unknown service %q (available: instances, account)", service)
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			for _, service := range services {
				switch service {
				case "instances":
					if err := runInstances(ctx); err != nil {
						return err
					}
				case "account":
					if err := runAccount(ctx); err != nil {
						return err
					}
				}
			}

			return nil
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().StringSliceVarP(&regions, "regions", "r", nil,
		fmt.Sprintf("AWS regions to scan (comma separated, default: %s)", DefaultRegion))
	rootCmd.Flags().StringSliceVarP(&services, "services", "s", nil,
		fmt.Sprintf("Services to run: instances, account (default: %s)", DefaultService))
	rootCmd.Flags().StringSliceVar(&vpcIDs, "vpc-ids", nil, "Restrict the instance scan to these VPCs")
	rootCmd.Flags().StringVar(&operatingSystem, "os", "Linux", "Operating system used for compute price lookups")
	rootCmd.Flags().StringVar(&accountID, "account-id", "", "Account to aggregate costs for (default: caller identity)")
	rootCmd.Flags().StringVar(&accountParam, "account-param", "", "SSM parameter holding the account ID")
	rootCmd.Flags().StringVar(&gateway, "gateway", "localhost:9091", "Pushgateway address")
	rootCmd.Flags().StringVar(&job, "job", "costpush", "Pushgateway job name")
	rootCmd.Flags().BoolVar(&pushEstimates, "push", false, "Also push per-instance estimates to the gateway")
	rootCmd.Flags().StringVar(&archiveBucket, "archive-bucket", "", "S3 bucket to archive the monthly summary to")
	rootCmd.Flags().StringVar(&archiveKey, "archive-key", "costpush/monthly-summary.json", "S3 key for the archived summary")
	rootCmd.Flags().StringVar(&endpointsFile, "endpoints-file", "/usr/local/share/costpush/endpoints.json",
		"Endpoints document used to translate region codes for the pricing catalog")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runInstances estimates the monthly cost of every instance in the
// selected regions, one region and one instance at a time.
func runInstances(ctx context.Context) error {
	fmt.Println("Starting instance cost scan ...")
	scanStartTime := time.Now()

	s := startScanSpinner("EC2")

	catalog, err := pricing.NewCatalogAPI(ctx)
	if err != nil {
		s.Stop()
		return err
	}
	prices := pricing.NewClient(catalog, pricing.NewRegionTranslator(endpointsFile))

	var records []models.InstanceCostRecord
	for _, region := range regions {
		ec2Client, err := aws.NewEC2Client(ctx, region)
		if err != nil {
			s.Stop()
			return err
		}

		ids, err := ec2Client.ListInstanceIDs(ctx, vpcIDs)
		if err != nil {
			s.Stop()
			return err
		}

		estimator := cost.NewEstimator(ec2Client, prices, ec2Client.Region(), operatingSystem)
		for _, id := range ids {
			record, err := estimator.EstimateInstanceCost(ctx, id)
			if err != nil {
				s.Stop()
				return err
			}
			records = append(records, record)
		}
	}

	scanDuration := time.Since(scanStartTime)
	s.FinalMSG = fmt.Sprintf("✓ [%d instances estimated] - Completed in %.2f seconds\n",
		len(records), scanDuration.Seconds())
	s.Stop()

	formatter.PrintInstanceCostTable(records, scanStartTime, scanDuration)
	formatter.PrintPricingAPIStats()

	if pushEstimates {
		if err := metrics.PublishInstanceCosts(records, gateway, job); err != nil {
			return err
		}
	}

	return nil
}

// runAccount aggregates the account's billed cost by calendar month,
// prints it, pushes it to the gateway, and optionally archives it.
func runAccount(ctx context.Context) error {
	id, err := resolveAccountID(ctx)
	if err != nil {
		return err
	}

	scanStartTime := time.Now()
	start, end := aws.DefaultDateRange(scanStartTime)

	ce, err := aws.NewCostExplorerClient(ctx)
	if err != nil {
		return err
	}

	summary, err := ce.AggregateMonthlyCost(ctx, id, start, end)
	if err != nil {
		return err
	}

	formatter.PrintAccountCostTable(summary, id, scanStartTime, time.Since(scanStartTime))

	if err := metrics.PublishAccountCost(summary, id, gateway, job); err != nil {
		return err
	}

	if archiveBucket != "" {
		if err := archiveSummary(ctx, summary, id); err != nil {
			return err
		}
	}

	return nil
}

// resolveAccountID picks the target account: the flag when set, the
// SSM parameter when configured, the caller identity otherwise.
func resolveAccountID(ctx context.Context) (string, error) {
	if accountID != "" {
		return accountID, nil
	}

	if accountParam != "" {
		store, err := aws.NewParameterStore(ctx)
		if err != nil {
			return "", err
		}
		return store.Get(ctx, accountParam)
	}

	stsClient, err := aws.NewSTSClient(ctx)
	if err != nil {
		return "", err
	}
	return stsClient.CallerAccountID(ctx)
}

func archiveSummary(ctx context.Context, summary models.MonthlyCostSummary, id string) error {
	data, err := json.Marshal(map[string]models.MonthlyCostSummary{id: summary})
	if err != nil {
		return fmt.Errorf("encoding summary for archive: %w", err)
	}

	store, err := aws.NewObjectStore(ctx)
	if err != nil {
		return err
	}

	if err := store.Put(ctx, archiveBucket, archiveKey, data); err != nil {
		return err
	}

	log.Info().Str("bucket", archiveBucket).Str("key", archiveKey).Msg("Archived monthly summary")
	return nil
}
