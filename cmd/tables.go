package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [table]",
	Short: "List tables, or the columns of one table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		adapter, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer adapter.Close()

		if len(args) == 0 {
			tables, err := adapter.GetAllTableNames(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tables: %w", err)
			}
			color.Cyan("📋 %d tables", len(tables))
			for _, name := range tables {
				fmt.Printf("  • %s\n", name)
			}
			return nil
		}

		cols, err := adapter.GetTableColumns(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get columns for %s: %w", args[0], err)
		}
		schema := types.SchemaTable{Name: args[0], Columns: cols}
		color.Cyan("📋 %s (%d columns)", schema.Name, len(schema.ColumnNames()))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Column", "Type", "Kind", "Nullable", "Default", "References"})
		for _, col := range schema.Columns {
			ref := ""
			if col.ForeignKeyTable != "" {
				ref = col.ForeignKeyTable + "." + col.ForeignKeyColumn
			}
			table.Append([]string{
				col.Name,
				col.Type,
				string(analytics.NormalizeType(col.Type)),
				strconv.FormatBool(col.Nullable),
				col.Default,
				ref,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().String("db", "", "Database URL (overrides config/env)")
}
