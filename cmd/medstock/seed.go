package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alrazi/medstock/internal/app"
	"github.com/alrazi/medstock/internal/catalog"
)

//go:embed demo_items.yaml
var defaultDemoItems []byte

type seedFile struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Unit     string `yaml:"unit"`
	Quantity int    `yaml:"quantity"`
}

// loadDemoItems parses the seed catalog at path, or the embedded one when
// path is empty.
func loadDemoItems(path string) ([]catalog.CreateItemInput, error) {
	raw := defaultDemoItems
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = data
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	out := make([]catalog.CreateItemInput, 0, len(file.Items))
	for _, it := range file.Items {
		out = append(out, catalog.CreateItemInput{
			Code:            it.Code,
			Name:            it.Name,
			Category:        it.Category,
			Unit:            it.Unit,
			InitialQuantity: it.Quantity,
		})
	}
	return out, nil
}

// seedDemoItems fills an empty catalog with sample supplies.
func seedDemoItems(ctx context.Context, core *app.Core, items []catalog.CreateItemInput, logger *slog.Logger) error {
	existing, err := core.ListItems(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("catalog not empty, skipping demo items", slog.Int("items", len(existing)))
		return nil
	}
	var errs []error
	for _, in := range items {
		if _, err := core.CreateItem(ctx, in); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in.Code, err))
		}
	}
	logger.Info("demo items seeded", slog.Int("items", len(items)-len(errs)))
	return errors.Join(errs...)
}
