package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List all configured job categories",
	Long:  "Reads the config and prints a table of all configured categories.",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-6s %-30s %s\n", "ID", "Category", "Status")
	fmt.Println(strings.Repeat("─", 47))

	enabled, disabled := 0, 0
	for _, c := range cfg.Categories {
		status := "enabled"
		if !c.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		fmt.Printf("%-6d %-30s %s\n", c.ID, c.Name, status)
	}

	fmt.Printf("\nTotal: %d categories (%d enabled, %d disabled)\n", len(cfg.Categories), enabled, disabled)
	return nil
}
