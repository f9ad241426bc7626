package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/app"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

var flagVerbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "flowfocus",
		Short: "Organize tasks into categories and move them through active, paused and completed",
		Long: `FlowFocus keeps your tasks on a FlowFocus server, grouped into colored
categories, and a separate offline to-do list on this machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests and store results")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		var rep reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, ui.BoldRed("Error:"), err)
		}
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the FlowFocus API server",
		Long: `Run the REST API over PostgreSQL. Configuration comes from the environment
(ENV, HTTP_*, POSTGRES_*, JWT_*), optionally loaded from a .env file.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.Serve()
		},
	}
}
