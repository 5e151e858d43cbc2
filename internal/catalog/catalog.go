// Package catalog loads the bundled deck catalog: a manifest of deck files
// plus the decks themselves, from a directory or over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"quizdeck/internal/deck"
	"quizdeck/internal/logging"
)

// Manifest lists the deck files of a catalog.
type Manifest struct {
	Decks []string `json:"decks"`
}

// Entry is a catalog deck ready to be shown as a selectable button.
type Entry struct {
	File string    `json:"file"`
	Name string    `json:"name"`
	Icon string    `json:"icon"`
	Deck deck.Deck `json:"-"`
}

// Catalog loads decks from a Source.
type Catalog struct {
	source      Source
	logger      *logging.Logger
	concurrency int
}

// New builds a catalog over source.
func New(source Source, logger *logging.Logger) *Catalog {
	return &Catalog{
		source:      source,
		logger:      logging.OrNop(logger).With("catalog", source.String()),
		concurrency: 4,
	}
}

// Manifest reads and decodes the catalog manifest.
func (c *Catalog) Manifest(ctx context.Context) (Manifest, error) {
	data, err := c.source.Read(ctx, ManifestName)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %w", deck.ErrDeckLoad, err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("%w: parse manifest: %w", deck.ErrDeckLoad, err)
	}
	return manifest, nil
}

// Deck loads a single deck file from the catalog.
func (c *Catalog) Deck(ctx context.Context, file string) (deck.Deck, error) {
	data, err := c.source.Read(ctx, file)
	if err != nil {
		return deck.Deck{}, fmt.Errorf("%w: %s: %w", deck.ErrDeckLoad, file, err)
	}
	d, err := deck.Parse(data, deck.FormatFromPath(file))
	if err != nil {
		return deck.Deck{}, fmt.Errorf("%s: %w", file, err)
	}
	return d, nil
}

// List loads every deck in the manifest, in manifest order. Any failure fails
// the whole listing.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	manifest, err := c.Manifest(ctx)
	if err != nil {
		c.logger.Error("load manifest failed", "error", err)
		return nil, err
	}
	entries := make([]Entry, len(manifest.Decks))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency)
	for i, file := range manifest.Decks {
		group.Go(func() error {
			d, err := c.Deck(groupCtx, file)
			if err != nil {
				return err
			}
			entries[i] = Entry{File: file, Name: d.Name, Icon: d.DisplayIcon(), Deck: d}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		c.logger.Error("load decks failed", "error", err)
		return nil, err
	}
	c.logger.Debug("catalog loaded", "decks", len(entries))
	return entries, nil
}

// ProbeImage reports whether a step image can be loaded. It never fails; an
// unreachable image reads as false.
func (c *Catalog) ProbeImage(ctx context.Context, ref string) bool {
	ok := c.source.Exists(ctx, ref)
	if !ok {
		c.logger.Warn("image failed to load, skipping", "image", ref)
	}
	return ok
}
