// Package catalog provides the application layer for the user's local
// ingredient catalog, including CSV import.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/ports/inbound"
	"github.com/plateful/v1/internal/ports/outbound"
	apperrors "github.com/plateful/v1/pkg/errors"
)

// CatalogService implements the catalog use cases.
type CatalogService struct {
	repo     outbound.CatalogRepository
	logger   *zap.Logger
	validate *validator.Validate
}

// NewCatalogService creates a catalog service.
func NewCatalogService(repo outbound.CatalogRepository, logger *zap.Logger) inbound.CatalogService {
	return &CatalogService{
		repo:     repo,
		logger:   logger.Named("catalog-service"),
		validate: validator.New(),
	}
}

// SaveIngredient upserts a local catalog entry. Per-serving nutrition is
// normalized to the per-gram basis before storage.
func (s *CatalogService) SaveIngredient(ctx context.Context, cmd inbound.SaveCatalogIngredientCommand) (*ingredient.Ingredient, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	serving := cmd.ServingGrams
	if serving <= 0 {
		serving = ingredient.DefaultReferenceServingGrams
	}

	ing := &ingredient.Ingredient{
		SourceID: ingredient.NewSourceID(ingredient.SourceLocal, cmd.ProviderID),
		Source:   ingredient.SourceLocal,
		Name:     strings.TrimSpace(cmd.Name),
		PerGram: ingredient.Nutrition{
			Calories: cmd.Calories / serving,
			Protein:  cmd.Protein / serving,
			Carbs:    cmd.Carbs / serving,
			Fat:      cmd.Fat / serving,
		},
		ReferenceServingGrams: serving,
		StoreSection:          ingredient.NormalizeSection(cmd.StoreSection),
		Emoji:                 cmd.Emoji,
		PricePer100g:          cmd.PricePer100g,
	}
	if cmd.PricePer100g > 0 {
		ing.PricePerGram = cmd.PricePer100g / 100
	}
	if err := ing.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, ing); err != nil {
		return nil, apperrors.NewDatabaseError("save catalog ingredient", err)
	}
	s.logger.Info("catalog ingredient saved", zap.String("source_id", ing.SourceID))
	return ing, nil
}

// DeleteIngredient removes a catalog entry after the user confirmed.
func (s *CatalogService) DeleteIngredient(ctx context.Context, sourceID string, confirmed bool) error {
	if !confirmed {
		return apperrors.NewConfirmationRequiredError("delete catalog ingredient")
	}
	if _, err := s.repo.FindBySourceID(ctx, sourceID); err != nil {
		if errors.Is(err, ingredient.ErrNotFound) {
			return apperrors.NewIngredientNotFoundError(sourceID)
		}
		return apperrors.NewDatabaseError("find catalog ingredient", err)
	}
	if err := s.repo.Delete(ctx, sourceID); err != nil {
		return apperrors.NewDatabaseError("delete catalog ingredient", err)
	}
	return nil
}

// ListCatalog returns the catalog in insertion order.
func (s *CatalogService) ListCatalog(ctx context.Context) ([]ingredient.Ingredient, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list catalog", err)
	}
	return entries, nil
}

// csv column names, matched case-insensitively against the header row.
const (
	colName        = "name"
	colServingSize = "servingsize"
	colCalories    = "calories"
	colFat         = "fat"
	colCarbs       = "carbs"
	colProtein     = "protein"
)

// ImportCSV ingests a catalog export. The header row must contain at least
// name, servingsize, calories, fat, carbs and protein (case-insensitive).
// Lines starting with '#' are comments. Rows without a name are skipped;
// names already present in the catalog (case-insensitive) are counted as
// duplicates and left untouched.
func (s *CatalogService) ImportCSV(ctx context.Context, r io.Reader) (*inbound.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewBadRequestError("csv import requires a header row")
	}
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{colName, colServingSize, colCalories, colFat, colCarbs, colProtein} {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.NewBadRequestError("csv header is missing the " + required + " column")
		}
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list catalog", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[strings.ToLower(e.Name)] = struct{}{}
	}

	summary := &inbound.ImportSummary{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row is skipped, not fatal to the whole import.
			summary.Skipped++
			continue
		}

		name := strings.TrimSpace(field(record, columns[colName]))
		if name == "" {
			summary.Skipped++
			continue
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			summary.Duplicates++
			continue
		}

		serving := parseField(record, columns[colServingSize])
		if serving <= 0 {
			serving = ingredient.DefaultReferenceServingGrams
		}
		ing := &ingredient.Ingredient{
			SourceID: ingredient.NewSourceID(ingredient.SourceLocal, slug(name)),
			Source:   ingredient.SourceLocal,
			Name:     name,
			PerGram: ingredient.Nutrition{
				Calories: parseField(record, columns[colCalories]) / serving,
				Protein:  parseField(record, columns[colProtein]) / serving,
				Carbs:    parseField(record, columns[colCarbs]) / serving,
				Fat:      parseField(record, columns[colFat]) / serving,
			},
			ReferenceServingGrams: serving,
			StoreSection:          ingredient.DefaultStoreSection,
		}
		if err := s.repo.Save(ctx, ing); err != nil {
			return nil, apperrors.NewDatabaseError("save imported ingredient", err)
		}
		seen[strings.ToLower(name)] = struct{}{}
		summary.Imported++
	}

	s.logger.Info("catalog import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseField(record []string, idx int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field(record, idx)), 64)
	if err != nil {
		return 0
	}
	return v
}

// slug derives a stable provider id from an imported ingredient name.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
