// cmd/grademaster/main.go
//
// Entry point for the GradeMaster CLI. Running `grademaster` with no
// arguments opens the terminal UI; the subcommands expose the same grading
// and subscription flows for scripts.

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/tui"
)

var (
	// Global flags
	dataDir string
	verbose bool

	env *runtimeEnv
)

var rootCmd = &cobra.Command{
	Use:   "grademaster",
	Short: "IELTS GradeMaster - grade handwritten essays from the terminal",
	Long: `IELTS GradeMaster scans a photo of a handwritten IELTS essay, sends it to
an AI examiner and shows band scores with itemized feedback.

The free trial includes 5 essays; a yearly subscription allows 200.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = openRuntime(cmd.Context(), dataDir, verbose)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Data directory (default: ~/.grademaster)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	gradeCmd.Flags().BoolVar(&gradeJSON, "json", false, "Print the raw grading result as JSON")
	descriptorsCmd.Flags().StringVar(&descriptorsTask, "task", "1", "Task to show (1 or 2)")
	descriptorsCmd.Flags().IntVar(&descriptorsBand, "band", 0, "Only show one band")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(descriptorsCmd)
	rootCmd.AddCommand(storageCmd)
}

func main() {
	if err := execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the root command and releases the runtime afterwards, also
// when the command failed.
func execute(ctx context.Context) error {
	defer func() {
		if env != nil {
			env.Close()
			env = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func runInteractive(ctx context.Context) error {
	ctrl, err := env.controller(ctx)
	if err != nil {
		return err
	}
	app, err := tui.NewApp(ctrl,
		tui.WithJournal(env.journal),
		tui.WithLogger(env.logger),
		tui.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		env.logger.Error("tui exited", zap.Error(err))
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
