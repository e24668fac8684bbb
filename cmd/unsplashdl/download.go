package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"unsplashdl/internal/downloader"
	"unsplashdl/pkg/ui"
	"unsplashdl/pkg/ui/tui"
)

var (
	// Download command flags
	downloadLimit int
	useTUI        bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [collection-id...]",
	Short: "Download photos from Unsplash collections",
	Long: `Collect the photo URLs of one or more collections and download the first
--count of them into the output directory as 0.png, 1.png, ...

Run without arguments on a terminal to be asked for the collection id, the
number of pages and how many of the found images to download.

Every URL gets one outcome. A failed download is reported and skipped; it
never stops the rest of the batch and does not change the exit code.`,
	Example: `  # Interactive
  unsplashdl download

  # Ten images from two pages, four at a time
  unsplashdl download 1580860 --pages 2 --count 10 --concurrency 4

  # Keep the served format and write a manifest
  unsplashdl download 1580860 --extension content-type --manifest -o ./wallpapers`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	fs := downloadCmd.Flags()
	addAPIFlags(fs)
	fs.StringP("output", "o", "downloads", "destination directory")
	fs.IntP("concurrency", "j", 1, "number of downloads in flight (1-10)")
	fs.Duration("download-timeout", 0, "timeout for each image download (default from config, 60s)")
	fs.String("extension", "fixed", "file extension policy: fixed (.png) or content-type")
	fs.Bool("create-dir", true, "create the destination directory when missing")
	fs.Bool("manifest", false, "write manifest.yaml describing the run")
	fs.IntVarP(&downloadLimit, "count", "n", 0, "number of found images to download (default all, or ask)")
	fs.BoolVar(&useTUI, "tui", false, "show a live terminal UI while downloading")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	var console io.Writer = os.Stderr
	if useTUI {
		// the TUI owns the screen; the log file still gets everything
		console = io.Discard
	}
	log, err := newLogger(cfg, console)
	if err != nil {
		return err
	}

	prompter := interactivePrompter()
	interactive := prompter != nil && len(args) == 0
	if !interactive {
		prompter = nil
	}

	ids, err := collectionIDs(args, prompter)
	if err != nil {
		return err
	}
	if interactive {
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
	collected := p.collect(ctx, ids)
	ui.PrintInfo("Found", fmt.Sprintf("%d images", len(collected.URLs)))

	count, err := downloadCount(len(collected.URLs), downloadLimit, prompter)
	if err != nil {
		return err
	}
	if count == 0 {
		ui.PrintWarning("Nothing to download")
		return nil
	}
	urls := collected.URLs[:count]

	if err := p.prepareDestination(); err != nil {
		return err
	}

	var results []downloader.Result
	if useTUI {
		results, err = downloadWithTUI(ctx, p, urls)
		if err != nil {
			return err
		}
	} else {
		display := ui.NewProgressDisplay(nil, len(urls))
		results = p.download(ctx, urls, func(r downloader.Result) {
			display.Report(r.Index, r.URL, r.Path, r.Bytes, r.Err)
		})
		display.Complete()
	}

	if cfg.Download.Manifest {
		path, err := p.writeManifest(ids, collected, results)
		if err != nil {
			ui.PrintError("Failed to write manifest", err.Error())
		} else {
			ui.PrintInfo("Manifest", path)
		}
	}

	ok, failed, _ := summarize(results)
	notifier := ui.NewNotifier(notify)
	if failed > 0 {
		notifier.SendError("unsplashdl", fmt.Sprintf("%d of %d downloads failed", failed, len(results)))
	} else {
		notifier.SendSuccess("unsplashdl", fmt.Sprintf("Downloaded %d images to %s", ok, cfg.Download.Destination))
	}
	return nil
}

// downloadWithTUI runs the batch in the background while the TUI owns the
// terminal. Quitting the TUI cancels downloads that have not started.
func downloadWithTUI(ctx context.Context, p *pipeline, urls []string) ([]downloader.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := tui.NewTUI(urls)
	done := make(chan []downloader.Result, 1)

	go func() {
		view.Log("INFO", "Run %s: downloading %d images to %s", p.runID, len(urls), p.cfg.Download.Destination)
		results := p.download(ctx, urls, func(r downloader.Result) {
			if r.OK() {
				view.ItemDone(r.Index, r.Path, r.Bytes)
			} else {
				view.ItemFailed(r.Index, r.Err)
			}
		})
		if ctx.Err() != nil {
			view.Log("WARN", "Run %s stopped early", p.runID)
		}
		view.Finish()
		done <- results
	}()

	final, err := view.Run()
	cancelled := err == nil && final.Cancelled()
	if cancelled || err != nil {
		cancel()
	}
	results := <-done
	if err != nil {
		return results, err
	}
	if cancelled {
		ui.PrintWarning("Stopped early: remaining downloads were skipped")
	}
	return results, nil
}
