package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var Version = "dev"

// @title Translate API
// @version 1.0
// @description Document upload, translation and subscription checkout.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:     "translateapi",
		Short:   "Document translation API server",
		Version: Version,
		RunE:    runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
