package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/duesync/internal/logging"
)

var (
	debugMode bool
	envFile   string
)

// rootCmd represents the base command for the duesync application
var rootCmd = &cobra.Command{
	Use:   "duesync",
	Short: "Copies upcoming Google Classroom deadlines onto a Trello list",
	Long: `duesync reads the coursework of a Google Classroom course and creates
one Trello card per assignment that is still due, with the card's due date
set to the assignment's deadline. Cards whose title already exists on the
list are left alone, so running it again only adds new assignments.

Trello credentials are read from API_KEY, API_SECRET and TOKEN in the
environment or a .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.NewLogger(cmd.ErrOrStderr(), debugMode))
	},
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "duesync version %s\n" .Version}}`)

	// If no subcommand is provided, run the sync command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "sync")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with API_KEY, API_SECRET and TOKEN (skipped when missing)")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newVersionCmd())
}
