// Package report records what a download run did in a manifest.yaml file
// next to the downloaded images.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"unsplashdl/internal/downloader"
	"unsplashdl/pkg/collector"
	errs "unsplashdl/pkg/errors"
	"unsplashdl/pkg/storage"
)

// FileName is the name of the manifest inside the destination directory
const FileName = "manifest.yaml"

// Manifest describes one run
type Manifest struct {
	RunID       string    `yaml:"run_id"`
	CreatedAt   time.Time `yaml:"created_at"`
	Collections []string  `yaml:"collections"`
	Pages       int       `yaml:"pages"`
	Found       int       `yaml:"found"`
	Requested   int       `yaml:"requested"`
	Succeeded   int       `yaml:"succeeded"`
	Failed      int       `yaml:"failed"`
	Bytes       int64     `yaml:"bytes"`

	PageFailures []PageFailure `yaml:"page_failures,omitempty"`
	Items        []Item        `yaml:"items"`
}

// PageFailure is a collection page that yielded nothing
type PageFailure struct {
	Collection string `yaml:"collection"`
	Page       int    `yaml:"page"`
	Error      string `yaml:"error"`
}

// Item is the outcome of one download
type Item struct {
	Index       int    `yaml:"index"`
	URL         string `yaml:"url"`
	File        string `yaml:"file,omitempty"`
	Bytes       int64  `yaml:"bytes,omitempty"`
	ContentType string `yaml:"content_type,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// New starts a manifest for a run. An empty runID gets a fresh UUID.
func New(runID string, collections []string, pages int) *Manifest {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Manifest{
		RunID:       runID,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Collections: collections,
		Pages:       pages,
		Items:       []Item{},
	}
}

// AddCollect records the collection walk
func (m *Manifest) AddCollect(result *collector.Result) {
	m.Found = len(result.URLs)
	for _, p := range result.Failed() {
		m.PageFailures = append(m.PageFailures, PageFailure{
			Collection: p.CollectionID,
			Page:       p.Page,
			Error:      p.Err.Error(),
		})
	}
}

// AddResults records download outcomes
func (m *Manifest) AddResults(results []downloader.Result) {
	for _, r := range results {
		item := Item{Index: r.Index, URL: r.URL, ContentType: r.ContentType}
		if r.OK() {
			item.File = filepath.Base(r.Path)
			item.Bytes = r.Bytes
			m.Succeeded++
			m.Bytes += r.Bytes
		} else {
			item.Error = r.Err.Error()
			m.Failed++
		}
		m.Items = append(m.Items, item)
	}
	m.Requested = len(m.Items)
}

// Save writes the manifest into dir, replacing any previous one
func (m *Manifest) Save(dir string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	_, path, err := storage.NewManager(dir).Save(FileName, &buf)
	if err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a manifest written by Save
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Filesystem("read manifest", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errs.Decode("parse manifest", err)
	}
	return &m, nil
}
