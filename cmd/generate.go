package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"armory/core/config"
	"armory/core/confgen"
	"armory/core/logger"
	"armory/core/store"
	"armory/core/workshop"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateRefresh bool

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [profile-id]",
	Short: "Generate a profile's server configuration",
	Long:  `Synthesizes the server configuration for a profile from its stored snapshot and writes the artifact to the configs directory.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runGenerate(cmd.Context(), args[0])
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateRefresh, "refresh", false, "re-resolve the dependency snapshot first")
	RootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, profileID string) {
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

	resolver := workshop.NewResolver(workshop.NewHTTPFetcher(cfg.Workshop), cfg.Workshop, logg)
	profileStore := store.New(cfg.Store, resolver, logg)

	if generateRefresh {
		if _, err := profileStore.Refresh(ctx, profileID); err != nil {
			if !errors.Is(err, workshop.ErrDepthExceeded) {
				logg.Fatal("Refresh failed", zap.String("profile_id", profileID), zap.Error(err))
			}
			logg.Warn("Snapshot truncated at depth limit", zap.String("profile_id", profileID))
		}
	}

	profile, err := profileStore.Get(profileID)
	if err != nil {
		logg.Fatal("Profile not found", zap.String("profile_id", profileID), zap.Error(err))
	}

	generator := confgen.NewGenerator(profileStore, nil, logg)
	path, err := generator.GenerateFor(ctx, profile)
	if err != nil {
		logg.Fatal("Config generation failed", zap.String("profile_id", profileID), zap.Error(err))
	}

	fmt.Println(path)
}
