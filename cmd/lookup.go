package cmd

import (
	"context"
	"fmt"
	"os"

	"assetbot/core/config"
	"assetbot/core/inventory"
	"assetbot/core/logger"
	"assetbot/feature/directory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lookupUserCmd finds a user by fuzzy name and lists their equipment.
var lookupUserCmd = &cobra.Command{
	Use:   "lookup-user [name]",
	Short: "Find a user by name and list their assigned assets",
	Long:  `Resolves a free-text name against the inventory directory with fuzzy matching and prints the matched user's equipment.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runUserLookup(cmd.Context(), args[0])
	},
}

// lookupAssetCmd finds one asset by tag or inventory number.
var lookupAssetCmd = &cobra.Command{
	Use:   "lookup-asset [identifier]",
	Short: "Find an asset by tag or inventory number",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAssetLookup(cmd.Context(), args[0])
	},
}

func init() {
	RootCmd.AddCommand(lookupUserCmd)
	RootCmd.AddCommand(lookupAssetCmd)
}

func directoryService() *directory.Service {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	inv, err := inventory.NewClient(cfg.Inventory, logg)
	if err != nil {
		logg.Fatal("Failed to create inventory client", zap.Error(err))
	}

	return directory.NewService(inv, cfg.Inventory, logg)
}

func runUserLookup(ctx context.Context, name string) {
	svc := directoryService()

	report, err := svc.LookupAssetsByUserName(ctx, name)
	if err != nil {
		fmt.Printf("Lookup failed: %v\n", err)
		os.Exit(1)
	}

	// Pretty Console Output
	fmt.Println("\n--- User Lookup ---")
	fmt.Printf("Query:          %s\n", name)
	fmt.Printf("Matched:        %s (id %d)\n", report.User.Name, report.User.ID)
	fmt.Printf("Match Score:    %.1f\n", report.MatchScore)
	for _, alt := range report.Alternates {
		fmt.Printf("Alternate:      %s (id %d)\n", alt.Name, alt.ID)
	}
	fmt.Println("-------------------")
	if len(report.Assets) == 0 {
		fmt.Println("No assets assigned.")
		return
	}
	for i, asset := range report.Assets {
		fmt.Printf("%d. %s\n", i+1, asset.DisplayName())
		fmt.Printf("   Tag:       %s\n", asset.Tag)
		fmt.Printf("   Inventory: %s\n", asset.InventoryNumber)
	}
}

func runAssetLookup(ctx context.Context, identifier string) {
	svc := directoryService()

	asset, err := svc.LookupAssetByNumber(ctx, identifier)
	if err != nil {
		fmt.Printf("Lookup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Asset Lookup ---")
	fmt.Printf("Query:          %s\n", identifier)
	fmt.Printf("Name:           %s\n", asset.DisplayName())
	fmt.Printf("Tag:            %s\n", asset.Tag)
	fmt.Printf("Inventory:      %s\n", asset.InventoryNumber)
	if asset.Status != nil {
		fmt.Printf("Status:         %s\n", asset.Status.Name)
	}
	if asset.AssignedTo != nil {
		fmt.Printf("Assigned To:    %s (id %d)\n", asset.AssignedTo.Name, asset.AssignedTo.ID)
	} else {
		fmt.Println("Assigned To:    nobody")
	}
}
