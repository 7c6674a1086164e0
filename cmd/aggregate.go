package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Run one chart selection and print the result",
	Long: `
Run a chart selection read from a YAML or JSON file and print the generated SQL
followed by the chart rows.

Example chart.yaml:
  tableName: orders
  xAxis: {key: region, tableName: orders}
  yAxes:
    - {key: amount, tableName: orders}
  groupBy: {key: segment, tableName: customers}
  aggregation: SUM
  secondaryTableNames: [customers]
  filters:
    - column: {key: status, tableName: orders}
      operator: IN
      value: [paid, shipped]

Examples:
  flashcharts aggregate -f chart.yaml
  flashcharts aggregate -f chart.yaml --sql-only
  flashcharts aggregate -f chart.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		sel, err := readSelection(file)
		if err != nil {
			return err
		}

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		adapter, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer adapter.Close()

		dialect := adapter.Dialect()
		if cfg.Analytics.IntegerCast != nil {
			dialect = dialect.WithIntegerCast(*cfg.Analytics.IntegerCast)
		}
		pipeline := analytics.NewPipeline(dialect, adapter, logger, analytics.WithQueryTimeout(cfg.Analytics.QueryTimeout))
		session := analytics.NewSession("cli", adapter, pipeline)

		if sqlOnly, _ := cmd.Flags().GetBool("sql-only"); sqlOnly {
			catalog, err := session.Catalog(ctx, sel.Tables()...)
			if err != nil {
				return err
			}
			_, query, warnings, err := pipeline.Prepare(sel, catalog)
			if err != nil {
				return err
			}
			printWarnings(warnings)
			printQuery(query)
			return nil
		}

		result, err := session.Submit(ctx, sel)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out, err := json.MarshalIndent(result.Data, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		printWarnings(result.Warnings)
		printQuery(result.Query)
		printChart(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringP("file", "f", "chart.yaml", "Chart selection file (YAML or JSON)")
	aggregateCmd.Flags().String("db", "", "Database URL (overrides config/env)")
	aggregateCmd.Flags().Bool("sql-only", false, "Print the generated SQL without running it")
	aggregateCmd.Flags().Bool("json", false, "Print chart data as JSON")
}

func readSelection(path string) (analytics.Selection, error) {
	var sel analytics.Selection

	data, err := os.ReadFile(path)
	if err != nil {
		return sel, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return sel, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return sel, nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		color.Yellow("⚠️  %s", w)
	}
}

func printQuery(q analytics.GeneratedQuery) {
	color.Cyan("🔍 SQL")
	fmt.Println(q.SQL)
	if len(q.Parameters) > 0 {
		fmt.Printf("   params: %v\n", q.Parameters)
	}
	fmt.Println()
}

func printChart(result *analytics.Result) {
	headers := []string{"name"}
	if len(result.Data.UniqueGroupKeys) > 0 {
		headers = append(headers, result.Data.UniqueGroupKeys...)
	} else {
		for _, y := range result.Request.YAxes {
			headers = append(headers, y.Key)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	for _, row := range result.Data.Rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := row[h]; ok && v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		table.Append(cells)
	}
	table.Render()

	color.Green("✅ %d rows", len(result.Data.Rows))
	if len(result.Data.UniqueGroupKeys) > 0 {
		fmt.Printf("   groups: %s\n", strings.Join(result.Data.UniqueGroupKeys, ", "))
	}
}
