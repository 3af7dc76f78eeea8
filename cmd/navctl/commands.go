package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"campus-map/internal/navigator/dataset"
	"campus-map/internal/navigator/export"
	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/repository"
)

func files() *dataset.Files {
	return dataset.NewFiles(dataDir, imagesDir)
}

func openCatalog(ctx context.Context) (*repository.Repository, func(), error) {
	db, err := repository.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	repo := repository.New(db)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init catalog: %w", err)
	}
	return repo, func() { db.Close() }, nil
}

func loadGraph() (*graph.Store, error) {
	var opts []graph.Option
	if strictMode {
		opts = append(opts, graph.WithStrictFloors())
	}
	return dataset.LoadGraph(files(), opts...)
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import rooms, floor images and doors into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ds, err := dataset.Load(files())
			if err != nil {
				return err
			}

			repo, closeDB, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.ImportDataset(ctx, ds); err != nil {
				return err
			}
			rooms, images, doors, err := repo.Counts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rooms, %d floor images, %d doors into %s\n", rooms, images, doors, dbPath)
			return nil
		},
	}
}

func routeCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "route <room | route-string>",
		Short: "Show the route legs of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if raw {
				printSegments(out, dataset.ParseRoute(args[0]), nil)
				return nil
			}

			ctx := context.Background()
			repo, closeDB, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			room, err := repo.FindRoom(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%s/%s)\n", room.Name, room.Building, room.Floor)
			printSegments(out, room.Segments, func(label, id string) string {
				d, err := repo.FindDoor(ctx, label, id)
				if err != nil || d.X == nil || d.Y == nil {
					return "-"
				}
				return fmt.Sprintf("(%d, %d)", *d.X, *d.Y)
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "parse the argument as a route string instead of a room name")
	return cmd
}

func printSegments(w io.Writer, segments []models.Segment, locate func(label, id string) string) {
	for i, seg := range segments {
		fmt.Fprintf(w, "%d. %s/%s\n", i+1, seg.Building, seg.Floor)
		for _, wp := range seg.Waypoints {
			if locate != nil {
				fmt.Fprintf(w, "   %s #%s %s\n", wp.Label, wp.DoorID, locate(wp.Label, wp.DoorID))
				continue
			}
			fmt.Fprintf(w, "   %s #%s\n", wp.Label, wp.DoorID)
		}
	}
}

func exportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:       "export <nodes|edges>",
		Short:     "Export the node table or the adjacency listing",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"nodes", "edges"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadGraph()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outputFile != "" && outputFile != "-" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			if args[0] == "nodes" {
				return export.WriteNodesCSV(w, store.Nodes())
			}
			return export.WriteAdjacency(w, store)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func nodesCmd() *cobra.Command {
	var building, floor string

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List graph nodes, optionally for one floor",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadGraph()
			if err != nil {
				return err
			}

			nodes := store.Nodes()
			if building != "" || floor != "" {
				nodes = store.NodesOn(building, floor)
			}
			out := cmd.OutOrStdout()
			for _, n := range nodes {
				fmt.Fprintf(out, "%d\t%s/%s\t(%d, %d)\t%s\t%s\tneighbours=%v\n",
					n.ID, n.Building, n.Floor, n.X, n.Y, n.Kind, n.Label, store.Neighbors(n.ID))
			}
			fmt.Fprintf(out, "%d nodes, %d edges\n", len(nodes), store.EdgeCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&building, "building", "", "building code")
	cmd.Flags().StringVar(&floor, "floor", "", "floor")
	return cmd
}
