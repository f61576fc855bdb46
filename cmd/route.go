package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/perds/config"
	"github.com/kilianp07/perds/core/pathfind"
)

var (
	routeFrom string
	routeTo   string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Compute the shortest path between two locations of the configured network",
	RunE:  route,
}

func init() {
	routeCmd.Flags().StringVar(&routeFrom, "from", "", "source location id")
	routeCmd.Flags().StringVar(&routeTo, "to", "", "destination location id")
	_ = routeCmd.MarkFlagRequired("from")
	_ = routeCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(routeCmd)
}

func route(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	graph, err := cfg.Network.Build()
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}

	finders := []struct {
		name   string
		finder pathfind.Finder
	}{
		{"dijkstra", pathfind.Dijkstra{}},
		{"astar", pathfind.AStar{}},
	}
	for _, f := range finders {
		res, err := f.finder.FindShortestPath(graph, routeFrom, routeTo)
		if err != nil {
			return err
		}
		if !res.Valid {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s no route from %s to %s\n", f.name+":", routeFrom, routeTo)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s (cost %.2f)\n", f.name+":", strings.Join(res.Path, " -> "), res.TotalDistance)
	}
	return nil
}
