// Package catalog loads rental items from a YAML file and upserts them.
//
// File layout:
//
//	items:
//	  - id: sony-a7-iii
//	    name: Sony A7 III
//	    tiers:
//	      - {min_days: 1, max_days: 3, price_per_day_cents: 8000}
//	      - {min_days: 4, price_per_day_cents: 6000}
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"camrent/pkg/logger"
	"camrent/pkg/model"
	"camrent/pkg/sanitizer"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("catalog contains no items")

type File struct {
	Items []model.RentalItem `yaml:"items"`
}

// Load decodes a catalog. Unknown keys are rejected so that typos in tier
// fields do not silently become zero prices.
func Load(r io.Reader) ([]model.RentalItem, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i := range f.Items {
		item := &f.Items[i]
		item.Name = sanitizer.NormalizeName(item.Name)
		if item.ID == "" {
			item.ID = sanitizer.NormalizeSlug(item.Name)
		} else {
			item.ID = sanitizer.NormalizeSlug(item.ID)
		}
		for j := range item.Tiers {
			item.Tiers[j].Description = sanitizer.TrimAndNormalize(item.Tiers[j].Description)
		}
	}
	return f.Items, nil
}

func LoadFile(path string) ([]model.RentalItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

type ItemValidator interface {
	ValidateItem(item *model.RentalItem) error
}

type ItemUpserter interface {
	Upsert(ctx context.Context, item *model.RentalItem) (created bool, err error)
}

type Summary struct {
	Created int
	Updated int
}

type Seeder struct {
	items     ItemUpserter
	validator ItemValidator
	log       *logger.Logger
}

func NewSeeder(items ItemUpserter, validator ItemValidator, log *logger.Logger) *Seeder {
	return &Seeder{items: items, validator: validator, log: log}
}

// Seed validates every item before writing any of them. Duplicate ids are
// reported as validation problems.
func (s *Seeder) Seed(ctx context.Context, items []model.RentalItem) (Summary, error) {
	var problems []string
	seen := make(map[string]int, len(items))
	for i := range items {
		item := &items[i]
		if first, dup := seen[item.ID]; dup {
			problems = append(problems, fmt.Sprintf("items[%d]: id %q already used by items[%d]", i, item.ID, first))
			continue
		}
		seen[item.ID] = i
		if err := s.validator.ValidateItem(item); err != nil {
			problems = append(problems, fmt.Sprintf("items[%d] (%s): %v", i, item.ID, err))
		}
	}
	if len(problems) > 0 {
		return Summary{}, fmt.Errorf("catalog is invalid:\n  %s", strings.Join(problems, "\n  "))
	}

	var sum Summary
	for i := range items {
		created, err := s.items.Upsert(ctx, &items[i])
		if err != nil {
			return sum, err
		}
		if created {
			sum.Created++
		} else {
			sum.Updated++
		}
		s.log.Debug("Seeded rental item", "item_id", items[i].ID, "created", created)
	}

	s.log.Info("Catalog seeded", "created", sum.Created, "updated", sum.Updated)
	return sum, nil
}
