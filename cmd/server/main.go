// Package main is the entry point for the narrative server and console
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrative/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-narrative",
	Short: "Narrative choice engine",
	Long:  `rpg-narrative runs branching text adventures for solo players and turn-based parties, over gRPC or in a console.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
