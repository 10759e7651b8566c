package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/mcp"
	"github.com/sitepulse/sitepulse/internal/scheduler"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the SitePulse MCP server",
	Long:  `Launch an MCP server that allows AI agents to generate and fetch SEO reports via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		sched := scheduler.New(cfg, metricCollector, storeManager)
		defer sched.Shutdown()
		return mcp.StartMCPServer(rootCtx, sched, storeManager)
	},
}
