package cli

import (
	"github.com/spf13/cobra"

	"github.com/roshil-6/TONIO-SENORA/internal/config"
)

// NewRootCommand creates the portal command. Configuration comes from the
// environment; subcommand flags override it.
func NewRootCommand() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Tonio & Senora client portal",
		Long:  "Backend for the visa client portal: document checklists, uploads, review and messaging.",
	}

	cmd.AddCommand(NewServeCommand(cfg))
	cmd.AddCommand(NewCatalogCommand())
	return cmd
}
