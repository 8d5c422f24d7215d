package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/crewboard/internal/location"
)

var locateCmd = &cobra.Command{
	Use:   "locate <location text>",
	Short: "Parse a free-text job location",
	Long:  `Parses a location such as "Vienna, Austria (AT)" and prints its display name, country code, and locality. No config is needed.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	raw := strings.Join(args, " ")
	loc := location.Parse(raw)
	if loc == nil {
		fmt.Fprintf(os.Stderr, "no location in %q\n", raw)
		os.Exit(1)
	}

	fmt.Printf("%-10s %s\n", "Name", loc.Name)
	fmt.Printf("%-10s %s\n", "Country", loc.Country)
	if loc.Locality != "" {
		fmt.Printf("%-10s %s\n", "Locality", loc.Locality)
	}
	return nil
}
