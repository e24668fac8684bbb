package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unsplashdl/internal/downloader"
	"unsplashdl/internal/mockapi"
	"unsplashdl/pkg/auth"
	"unsplashdl/pkg/config"
	"unsplashdl/pkg/logger"
	"unsplashdl/pkg/report"
	"unsplashdl/pkg/ui"
)

func quietUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	ui.SetOutput(&buf)
	ui.SetColor(false)
	t.Cleanup(func() {
		ui.SetOutput(nil)
		ui.SetColor(true)
	})
	return &buf
}

func TestCollectionIDs(t *testing.T) {
	ids, err := collectionIDs([]string{" 1580860 ", "https://unsplash.com/collections/317099/film"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1580860", "317099"}, ids)

	_, err = collectionIDs(nil, nil)
	assert.Error(t, err)

	_, err = collectionIDs([]string{"  "}, nil)
	assert.Error(t, err)
}

func TestCollectionIDsPrompt(t *testing.T) {
	var out bytes.Buffer
	prompter := ui.NewPrompter(strings.NewReader("abc, def\n"), &out)

	ids, err := collectionIDs(nil, prompter)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def"}, ids)
	assert.Contains(t, out.String(), "collection id")

	// arguments win over the prompter
	ids, err = collectionIDs([]string{"xyz"}, ui.NewPrompter(strings.NewReader(""), &out))
	require.NoError(t, err)
	assert.Equal(t, []string{"xyz"}, ids)
}

func TestAskPages(t *testing.T) {
	cfg := config.DefaultConfig()
	prompter := ui.NewPrompter(strings.NewReader("9\n3\n"), &bytes.Buffer{})

	require.NoError(t, askPages(cfg, prompter))
	assert.Equal(t, 3, cfg.Collect.Pages)
}

func TestDownloadCount(t *testing.T) {
	tests := []struct {
		name      string
		found     int
		requested int
		input     string
		expected  int
		wantErr   bool
	}{
		{name: "nothing found", found: 0, requested: 5, expected: 0},
		{name: "explicit count", found: 10, requested: 4, expected: 4},
		{name: "explicit count equals found", found: 3, requested: 3, expected: 3},
		{name: "count above found", found: 3, requested: 4, wantErr: true},
		{name: "negative count", found: 3, requested: -1, wantErr: true},
		{name: "default takes all", found: 7, expected: 7},
		{name: "asked", found: 7, input: "2\n", expected: 2},
		{name: "asked with default", found: 7, input: "\n", expected: 7},
		{name: "asked out of range then valid", found: 7, input: "0\n8\n5\n", expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompter *ui.Prompter
			if tt.input != "" {
				prompter = ui.NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			}

			n, err := downloadCount(tt.found, tt.requested, prompter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestResolveAccessKey(t *testing.T) {
	manager, store := auth.NewMockManager()
	require.NoError(t, store.Store(&auth.Key{Name: auth.DefaultProfile, AccessKey: "stored-key"}))

	cfg := config.DefaultConfig()
	cfg.API.AccessKey = " configured-key "
	key, err := resolveAccessKey(cfg, manager)
	require.NoError(t, err)
	assert.Equal(t, "configured-key", key)

	cfg.API.AccessKey = ""
	key, err = resolveAccessKey(cfg, manager)
	require.NoError(t, err)
	assert.Equal(t, "stored-key", key)

	empty, _ := auth.NewMockManager()
	_, err = resolveAccessKey(cfg, empty)
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)

	_, err = resolveAccessKey(cfg, nil)
	assert.Error(t, err)
}

func TestPipeline(t *testing.T) {
	server := mockapi.NewServer("key")
	defer server.Close()

	prefix := server.URL() + "/images"
	server.SetPage("abc", 1, mockapi.PageOf(prefix, "abc", 1, 3))
	server.SetPageBody("abc", 2, 200, `[{"broken"`)
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("abc-1-%d.jpg", i)
		server.SetImage(name, "image/jpeg", []byte("image "+name))
	}

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = server.URL()
	cfg.Collect.Pages = 2
	cfg.Download.Destination = filepath.Join(t.TempDir(), "nested", "out")
	cfg.Download.Manifest = true

	log := logger.NewTestLogger()
	p := newPipeline(cfg, "key", log)
	require.NotEmpty(t, p.runID)

	collected := p.collect(context.Background(), []string{"abc"})
	require.Len(t, collected.URLs, 3)
	assert.Len(t, collected.Failed(), 1)

	var started []logger.LogMessage
	for _, m := range log.GetMessagesByLevel("INFO") {
		if m.Message == "Starting run" {
			started = append(started, m)
		}
	}
	require.Len(t, started, 1)
	assert.Equal(t, server.URL(), started[0].Fields["api"])
	assert.Equal(t, []string{"abc"}, started[0].Fields["collections"])
	assert.Equal(t, p.runID, started[0].Fields["run"])

	require.NoError(t, p.prepareDestination())

	var seen []int
	results := p.download(context.Background(), collected.URLs[:2], func(r downloader.Result) {
		seen = append(seen, r.Index)
	})
	require.Len(t, results, 2)
	assert.Equal(t, []int{0, 1}, seen)

	data, err := os.ReadFile(filepath.Join(cfg.Download.Destination, "0.png"))
	require.NoError(t, err)
	assert.Equal(t, "image abc-1-0.jpg", string(data))
	assert.FileExists(t, filepath.Join(cfg.Download.Destination, "1.png"))
	assert.NoFileExists(t, filepath.Join(cfg.Download.Destination, "2.png"))

	ok, failed, written := summarize(results)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 0, failed)
	assert.Equal(t, int64(len("image abc-1-0.jpg")+len("image abc-1-1.jpg")), written)

	path, err := p.writeManifest([]string{"abc"}, collected, results)
	require.NoError(t, err)
	m, err := report.Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.runID, m.RunID)
	assert.Equal(t, 3, m.Found)
	assert.Equal(t, 2, m.Succeeded)
	assert.Len(t, m.PageFailures, 1)
}

func TestPrepareDestinationDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Download.Destination = filepath.Join(t.TempDir(), "missing")
	cfg.Download.CreateDestination = false

	p := newPipeline(cfg, "key", logger.NewTestLogger())
	require.NoError(t, p.prepareDestination())
	assert.NoDirExists(t, cfg.Download.Destination)

	results := p.download(context.Background(), []string{"http://127.0.0.1:1/a.jpg"}, nil)
	require.Len(t, results, 1)
	assert.False(t, results[0].OK())
}
