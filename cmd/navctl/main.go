package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var (
	dataDir    string
	imagesDir  string
	dbPath     string
	strictMode bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "navctl",
		Short: "Campus navigator dataset tool",
		Long: `navctl imports the campus dataset into the catalog database,
inspects room routes and exports the navigation graph.`,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", envOr("DATA_DIR", "data"), "dataset directory")
	rootCmd.PersistentFlags().StringVar(&imagesDir, "images", envOr("IMAGES_DIR", ""), "floor image directory (default <data>/images)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", envOr("CATALOG_DB_PATH", "data/db/catalog.db"), "catalog database path")
	rootCmd.PersistentFlags().BoolVar(&strictMode, "strict-floors", false, "reject edges between different floors")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(nodesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
