package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Every command shares app.
func NewRootCommand(app *App) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:   "pennywise",
		Short: "Personal budget tracker",
		Long: `pennywise records income and expenses, keeps monthly budgets per category
and summarises a month against its budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.connect(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "client config file (default: environment and built-in defaults)")

	root.AddCommand(registerCmd(app))
	root.AddCommand(loginCmd(app))
	root.AddCommand(logoutCmd(app))
	root.AddCommand(whoamiCmd(app))
	root.AddCommand(profileCmd(app))
	root.AddCommand(categoriesCmd(app))
	root.AddCommand(transactionsCmd(app))
	root.AddCommand(budgetsCmd(app))
	root.AddCommand(summaryCmd(app))
	return root
}
