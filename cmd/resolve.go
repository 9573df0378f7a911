package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"armory/core/config"
	"armory/core/logger"
	"armory/core/workshop"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolveDepth int

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [url-or-id]",
	Short: "Resolve a workshop item's dependency graph",
	Long:  `Resolves a workshop URL or identifier into its transitive dependency graph and prints it as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResolve(cmd.Context(), args[0])
	},
}

func init() {
	resolveCmd.Flags().IntVar(&resolveDepth, "depth", 0, "maximum dependency depth (0 uses the configured default)")
	RootCmd.AddCommand(resolveCmd)
}

func runResolve(ctx context.Context, input string) {
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

	rootID, err := workshop.ParseModID(input)
	if err != nil {
		logg.Fatal("Invalid workshop input", zap.String("input", input), zap.Error(err))
	}

	depth := resolveDepth
	if depth <= 0 {
		depth = cfg.Workshop.MaxDepth
	}

	resolver := workshop.NewResolver(workshop.NewHTTPFetcher(cfg.Workshop), cfg.Workshop, logg)
	graph, err := resolver.Resolve(ctx, rootID, depth)
	if err != nil && !errors.Is(err, workshop.ErrDepthExceeded) {
		logg.Fatal("Resolution failed", zap.Error(err))
	}

	out, marshalErr := json.MarshalIndent(graph, "", "  ")
	if marshalErr != nil {
		logg.Fatal("Failed to encode graph", zap.Error(marshalErr))
	}
	fmt.Println(string(out))

	if errors.Is(err, workshop.ErrDepthExceeded) {
		logg.Warn("Graph truncated at depth limit", zap.Int("depth", depth))
	}
}
