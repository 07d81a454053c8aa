package catalog

import (
	"context"
	"fmt"

	"github.com/starford/almanac/internal/apperr"
	"github.com/starford/almanac/internal/batch"
	"github.com/starford/almanac/internal/models"
	"github.com/starford/almanac/pkg/flexidate"
)

// Normalize parses free text. Empty text yields an empty canonical form.
func (s *Service) Normalize(text string) models.Normalized {
	return Describe(text, s.ix.Parser.Parse(flexidate.Text(text)))
}

// NormalizeBatch normalizes texts concurrently, keeping input order.
func (s *Service) NormalizeBatch(ctx context.Context, texts []string) ([]models.Normalized, error) {
	return batch.Map(ctx, s.workers, texts, func(_ context.Context, t string) (models.Normalized, error) {
		return s.Normalize(t), nil
	})
}

// Canonical parses a stored canonical string back into its parts.
func (s *Service) Canonical(text string) (models.Normalized, error) {
	d, ok := flexidate.FromString(text)
	if !ok {
		return models.Normalized{}, fmt.Errorf("%w: %q is not a canonical date", apperr.ErrInvalidInput, text)
	}
	return Describe(text, &d), nil
}

// Describe flattens d for transport. A nil d describes empty input.
func Describe(input string, d *flexidate.FlexiDate) models.Normalized {
	n := models.Normalized{Input: input}
	if d == nil {
		return n
	}
	n.Canonical = d.String()
	n.ISO = d.ISOFormat(true)
	n.Qualifier = d.Qualifier()
	n.Unparsed = d.IsUnparsed()
	if c := d.Year(); c.IsSet() {
		n.Year = c.String()
	}
	if c := d.Month(); c.IsSet() {
		n.Month = c.String()
	}
	if c := d.Day(); c.IsSet() {
		n.Day = c.String()
	}
	if v, ok := d.ApproxFloat(); ok {
		n.Approx = &v
	}
	return n
}
