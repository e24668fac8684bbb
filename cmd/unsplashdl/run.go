package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"unsplashdl/internal/downloader"
	"unsplashdl/pkg/auth"
	"unsplashdl/pkg/collector"
	"unsplashdl/pkg/config"
	"unsplashdl/pkg/logger"
	"unsplashdl/pkg/report"
	"unsplashdl/pkg/ui"
	"unsplashdl/pkg/unsplash"
)

// keySource supplies a stored access key
type keySource interface {
	RetrieveDefault() (*auth.Key, error)
}

// addAPIFlags registers the flags shared by every command that talks to the API
func addAPIFlags(fs *pflag.FlagSet) {
	fs.String("base-url", config.DefaultBaseURL, "Unsplash API base URL")
	fs.String("access-key", "", "Unsplash access key (prefer 'auth set' or ACCESS_KEY)")
	fs.Duration("timeout", config.DefaultConfig().API.Timeout, "timeout for each API request")
	fs.IntP("pages", "p", 1, "pages to fetch per collection")
	fs.Int("max-pages", config.DefaultConfig().Collect.MaxPages, "upper bound for --pages")
}

// loadConfig resolves configuration from every source, letting the command's flags win
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the run logger. Console output goes to w; the log file, when
// configured, always receives every entry.
func newLogger(cfg *config.Config, w io.Writer) (logger.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	return logger.NewWithWriter(&cfg.Logging, w)
}

// resolveAccessKey prefers a key from config, env or flags, then the credential stores
func resolveAccessKey(cfg *config.Config, keys keySource) (string, error) {
	if key := strings.TrimSpace(cfg.API.AccessKey); key != "" {
		return key, nil
	}
	if keys == nil {
		return "", errors.New("no Unsplash access key configured")
	}
	key, err := keys.RetrieveDefault()
	if err != nil {
		return "", fmt.Errorf("no Unsplash access key found, run 'unsplashdl auth set' or set ACCESS_KEY: %w", err)
	}
	return key.AccessKey, nil
}

// storedKeys opens the credential manager, returning nil when no store is usable
func storedKeys(log logger.Logger) keySource {
	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Debug("credential stores unavailable")
		return nil
	}
	return manager
}

// collectionIDs cleans the ids given on the command line. With none given and
// an interactive prompter, the user is asked for a comma separated list.
func collectionIDs(args []string, prompter *ui.Prompter) ([]string, error) {
	raw := args
	if len(raw) == 0 && prompter != nil {
		answer, err := prompter.Ask("Please enter the collection id", "")
		if err != nil {
			return nil, err
		}
		raw = strings.FieldsFunc(answer, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	}

	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		if id := unsplash.SanitizeCollectionID(r); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one collection id is required")
	}
	return ids, nil
}

// askPages asks for the page count within the configured bounds
func askPages(cfg *config.Config, prompter *ui.Prompter) error {
	pages, err := prompter.AskInt("Number of pages to fetch", 1, cfg.Collect.MaxPages, cfg.Collect.Pages)
	if err != nil {
		return err
	}
	cfg.Collect.Pages = pages
	return nil
}

// downloadCount picks how many of found URLs to download. requested > 0 must
// lie in [1, found]; zero asks the prompter, or takes everything without one.
func downloadCount(found, requested int, prompter *ui.Prompter) (int, error) {
	if found == 0 {
		return 0, nil
	}
	if requested > 0 {
		if requested > found {
			return 0, fmt.Errorf("invalid number of downloads %d: only %d images found", requested, found)
		}
		return requested, nil
	}
	if requested < 0 {
		return 0, fmt.Errorf("invalid number of downloads %d", requested)
	}
	if prompter == nil {
		return found, nil
	}
	return prompter.AskInt("How many would you like to download?", 1, found, found)
}

// interactivePrompter returns a stdin prompter when stdin is a terminal
func interactivePrompter() *ui.Prompter {
	if !ui.IsInteractive(os.Stdin) {
		return nil
	}
	return ui.NewPrompter(os.Stdin, ui.Output())
}

// pipeline is one collect-then-download run
type pipeline struct {
	cfg       *config.Config
	accessKey string
	runID     string
	log       logger.Logger
}

func newPipeline(cfg *config.Config, accessKey string, log logger.Logger) *pipeline {
	runID := uuid.NewString()
	return &pipeline{
		cfg:       cfg,
		accessKey: accessKey,
		runID:     runID,
		log:       log.WithField("run", runID),
	}
}

// collect walks the configured number of pages of every collection
func (p *pipeline) collect(ctx context.Context, ids []string) *collector.Result {
	client := unsplash.NewClient(p.cfg.API.BaseURL, p.accessKey, p.cfg.API.Timeout, p.log)
	p.log.InfoWithFields("Starting run", map[string]interface{}{
		"api":         client.BaseURL(),
		"collections": ids,
		"pages":       p.cfg.Collect.Pages,
	})
	return collector.New(client, p.log).Collect(ctx, ids, p.cfg.Collect.Pages)
}

// prepareDestination creates the destination when configured to
func (p *pipeline) prepareDestination() error {
	if !p.cfg.Download.CreateDestination {
		return nil
	}
	if err := os.MkdirAll(p.cfg.Download.Destination, 0755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", p.cfg.Download.Destination, err)
	}
	return nil
}

// download fetches urls into the destination, reporting each finished item to onResult
func (p *pipeline) download(ctx context.Context, urls []string, onResult func(downloader.Result)) []downloader.Result {
	client := unsplash.NewClient(p.cfg.API.BaseURL, p.accessKey, p.cfg.Download.Timeout, p.log)
	d := downloader.New(client, downloader.Options{
		Concurrency: p.cfg.Download.Concurrency,
		Extension:   downloader.ExtensionPolicy(p.cfg.Download.Extension),
		OnResult:    onResult,
	}, p.log)
	return d.DownloadAll(ctx, urls, p.cfg.Download.Destination)
}

// writeManifest records the run next to the downloaded files
func (p *pipeline) writeManifest(ids []string, collected *collector.Result, results []downloader.Result) (string, error) {
	m := report.New(p.runID, ids, p.cfg.Collect.Pages)
	m.AddCollect(collected)
	m.AddResults(results)
	return m.Save(p.cfg.Download.Destination)
}

// summarize counts successes, failures and bytes written
func summarize(results []downloader.Result) (ok, failed int, bytes int64) {
	for _, r := range results {
		if r.OK() {
			ok++
			bytes += r.Bytes
		} else {
			failed++
		}
	}
	return ok, failed, bytes
}
