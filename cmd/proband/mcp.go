package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP (Model Context Protocol) server for LLM tool integration",
	Long: `Starts an MCP server over stdio transport that lets an AI assistant read
subject tables, compare subjects and fetch briefings while drafting the
closing recommendation of a report.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "proband": {
        "command": "proband",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - list_subjects      Subjects of a table
  - compare_subject    Subject vs. group average or archived measurement
  - population_stats   Extended statistics of a table
  - subject_briefing   Plain-text briefing for the closing evaluation
  - list_snapshots     Archived measurement dates of a subject

Prompts:
  - closing_recommendation`,
	RunE: runMCP,
}

var mcpManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the MCP server manifest (server.json)",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpManifestCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc := newService()
	defer svc.Close()
	server := mcpserver.NewServer(version, svc)
	return server.Run(cmd.Context())
}
