package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/config"
	"github.com/kingrea/grademaster/internal/content"
	"github.com/kingrea/grademaster/internal/feedback"
	"github.com/kingrea/grademaster/internal/grading"
	"github.com/kingrea/grademaster/internal/session"
	"github.com/kingrea/grademaster/internal/subscription"
)

var (
	gradeJSON       bool
	descriptorsTask string
	descriptorsBand int
)

// gradeCmd grades one essay photo
var gradeCmd = &cobra.Command{
	Use:   "grade <image>",
	Short: "Grade a photo of a handwritten essay",
	Long: `Uploads the image to the configured examiner and prints the band scores,
examiner summary and feedback points. Uses one essay from your allowance on
success; failures do not count.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

// statusCmd shows the current plan
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show plan and essays remaining",
	Args:  cobra.NoArgs,
	RunE:  showStatus,
}

// subscribeCmd starts the yearly plan
var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: fmt.Sprintf("Start the $%d/year plan (%d essays)", subscription.PriceUSD, subscription.YearlyLimit),
	Args:  cobra.NoArgs,
	RunE:  runSubscribe,
}

// descriptorsCmd prints the band descriptor tables
var descriptorsCmd = &cobra.Command{
	Use:   "descriptors",
	Short: "Print the IELTS writing band descriptors",
	Args:  cobra.NoArgs,
	RunE:  showDescriptors,
}

// storageCmd moves the subscription record between backends
var storageCmd = &cobra.Command{
	Use:       "storage <file|sqlite>",
	Short:     "Switch the subscription storage backend, copying the current record",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{config.BackendFile, config.BackendSQLite},
	RunE:      switchStorage,
}

func runGrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ctrl, err := env.controller(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.Navigate(session.ScreenGradeUpload); err != nil {
		return err
	}
	res, err := ctrl.Grade(ctx, args[0])
	switch {
	case errors.Is(err, session.ErrQuotaExhausted):
		return fmt.Errorf("no essays remaining; run `grademaster subscribe` ($%d/year for %d essays)",
			subscription.PriceUSD, subscription.YearlyLimit)
	case errors.Is(err, grading.ErrNoFile):
		return errors.New("no image given")
	case res == nil && err != nil:
		if verbose {
			return fmt.Errorf("%s (%v)", session.FailureMessage, err)
		}
		return errors.New(session.FailureMessage)
	}

	out := cmd.OutOrStdout()
	if gradeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
	} else {
		printMarkdown(out, feedback.Markdown(res))
	}
	st := ctrl.State().Subscription
	fmt.Fprintf(cmd.ErrOrStderr(), "%d essay(s) remaining\n", st.EssaysRemaining)
	if err != nil {
		return fmt.Errorf("graded, but could not save essay count: %w", err)
	}
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctrl, err := env.controller(cmd.Context())
	if err != nil {
		return err
	}
	st := ctrl.State().Subscription
	out := cmd.OutOrStdout()
	plan := "Free Trial"
	if st.IsPremium {
		plan = "Premium Plan"
	}
	fmt.Fprintf(out, "Plan:       %s\n", plan)
	fmt.Fprintf(out, "Remaining:  %d\n", st.EssaysRemaining)
	fmt.Fprintf(out, "Used:       %d\n", st.EssaysUsed)
	if st.ExpiresAt != nil {
		fmt.Fprintf(out, "Renews:     %s\n", st.ExpiresAt.Local().Format("2 Jan 2006"))
	}
	fmt.Fprintf(out, "Storage:    %s\n", env.cfg.File.Storage.Backend)
	if !st.CanGrade() {
		fmt.Fprintf(out, "\nNo essays left. Run `grademaster subscribe` to continue ($%d/year).\n", subscription.PriceUSD)
	}
	return nil
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ctrl, err := env.controller(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.Subscribe(ctx); err != nil {
		return err
	}
	st := ctrl.State().Subscription
	fmt.Fprintf(cmd.OutOrStdout(), "Premium active: %d essays available", st.EssaysRemaining)
	if st.ExpiresAt != nil {
		fmt.Fprintf(cmd.OutOrStdout(), " until %s", st.ExpiresAt.Local().Format("2 Jan 2006"))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func showDescriptors(cmd *cobra.Command, args []string) error {
	task, err := content.ParseTask(descriptorsTask)
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", task.Title(), content.DescriptorsNote)
	found := false
	for _, row := range content.Descriptors(task) {
		if descriptorsBand != 0 && row.Band != descriptorsBand {
			continue
		}
		found = true
		fmt.Fprintf(&b, "## Band %d\n\n", row.Band)
		for _, f := range row.Fields(task) {
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", f.Label, f.Text)
		}
	}
	if !found {
		return fmt.Errorf("no descriptor for band %d", descriptorsBand)
	}
	fmt.Fprintf(&b, "_%s_\n", content.DescriptorsFooter)
	printMarkdown(cmd.OutOrStdout(), b.String())
	return nil
}

func switchStorage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := strings.ToLower(strings.TrimSpace(args[0]))
	current := env.cfg.File.Storage.Backend
	if target == current {
		fmt.Fprintf(cmd.OutOrStdout(), "Already using %s storage\n", current)
		return nil
	}
	to, closeTo, err := openStore(ctx, env.cfg, target)
	if err != nil {
		return err
	}
	defer closeTo()
	copied, err := subscription.Migrate(ctx, env.store, to)
	if err != nil {
		return fmt.Errorf("copying subscription record: %w", err)
	}
	if err := env.cfg.SetStorageBackend(target); err != nil {
		return err
	}
	env.logger.Info("storage backend switched",
		zap.String("from", current), zap.String("to", target), zap.Bool("copied", copied))
	env.journal.Info("Storage switched %s → %s", current, target)
	fmt.Fprintf(cmd.OutOrStdout(), "Storage switched from %s to %s\n", current, target)
	return nil
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(w io.Writer, md string) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(90),
	)
	if err == nil {
		if rendered, rerr := renderer.Render(md); rerr == nil {
			fmt.Fprint(w, rendered)
			return
		}
	}
	fmt.Fprint(w, md)
}
