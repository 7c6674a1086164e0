package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a " + config.FileName + " in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(config.FileName); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
		}

		if err := os.WriteFile(config.FileName, []byte(config.DefaultJSON), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", config.FileName, err)
		}

		color.Green("✅ Created %s", config.FileName)
		fmt.Println("   Set DATABASE_URL (or the variable named in database.url_env) and run:")
		fmt.Println("   flashcharts serve")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}
