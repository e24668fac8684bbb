package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"unsplashdl/pkg/ui"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [collection-id...]",
	Short: "Print the full-resolution photo URLs of collections",
	Long: `Walk the first --pages pages of each collection and print every photo's
full-resolution URL, one per line, in collection then page then record order.

Pages that fail to fetch or decode are logged and skipped. Collection ids may
also be given as unsplash.com collection links.`,
	Example: `  # First page of one collection
  unsplashdl collect 1580860

  # Three pages of two collections, URLs only
  unsplashdl collect 1580860 317099 --pages 3 --quiet > urls.txt`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
	addAPIFlags(collectCmd.Flags())
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}

	prompter := interactivePrompter()
	if len(args) > 0 {
		prompter = nil
	}
	ids, err := collectionIDs(args, prompter)
	if err != nil {
		return err
	}
	if prompter != nil {
		if err := askPages(cfg, prompter); err != nil {
			return err
		}
	}

	accessKey, err := resolveAccessKey(cfg, storedKeys(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p := newPipeline(cfg, accessKey, log)
	result := p.collect(ctx, ids)

	ui.PrintInfo("Found", fmt.Sprintf("%d images", len(result.URLs)))
	if failed := result.Failed(); len(failed) > 0 {
		ui.PrintWarning(fmt.Sprintf("%d of %d pages skipped", len(failed), len(result.Pages)))
	}

	out := cmd.OutOrStdout()
	for _, u := range result.URLs {
		fmt.Fprintln(out, u)
	}
	return nil
}
