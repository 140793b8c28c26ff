package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aplusgen/aplus/internal/apiclient"
	"github.com/aplusgen/aplus/internal/session"
	"github.com/aplusgen/aplus/internal/tui"
)

var apiURL string

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studio",
		Short: "Browse and manage your A+ content projects",
		Long:  `studio is a TUI application for signing in to an A+ content server and browsing, creating, and opening listing projects.`,
		RunE:  runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPIURL(), "Base URL of the A+ content server")
	rootCmd.AddCommand(NewLogoutCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultAPIURL() string {
	if v := os.Getenv("APLUS_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	sess := session.New(store)
	if err := sess.Restore(); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	client := apiclient.New(apiURL)

	project, err := tui.Run(client, sess)
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if project == nil {
		return nil
	}

	fmt.Printf("Opening project %q\n", project.Name)
	fmt.Printf("%s/editor/%s\n", strings.TrimRight(apiURL, "/"), project.ID)
	return nil
}
