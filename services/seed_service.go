package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/zeeshanfreelancer/memegenerator/models"
)

// seedLockName is the compare-and-swap marker that keeps concurrent first
// requests from double-seeding the catalog.
const seedLockName = "template-catalog"

// seedCategory and seedMaxPopularity shape the imported records.
const (
	seedCategory      = "popular"
	seedMaxPopularity = 1000
)

// TemplateSource is the external catalog the seeder imports from.
type TemplateSource interface {
	FetchTemplates(ctx context.Context) ([]ExternalTemplate, error)
}

// SeedLocker hands out at most one lock per name. Acquire reports whether
// the caller won; the loser skips seeding.
type SeedLocker interface {
	Acquire(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}

// SeedService populates an empty catalog from the external template source.
type SeedService struct {
	templates TemplateStore
	locks     SeedLocker
	source    TemplateSource
	timeout   time.Duration
	logger    *slog.Logger
}

func NewSeedService(templates TemplateStore, locks SeedLocker, source TemplateSource, timeout time.Duration) *SeedService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return &SeedService{
		templates: templates,
		locks:     locks,
		source:    source,
		timeout:   timeout,
		logger:    logger,
	}
}

// SeedIfEmpty imports the external catalog when the store holds zero
// templates. The seed lock guarantees a single importer; on fetch or insert
// failure the lock is released so a later request retries.
func (s *SeedService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.templates.Count(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	won, err := s.locks.Acquire(ctx, seedLockName)
	if err != nil {
		return fmt.Errorf("acquire seed lock: %w", err)
	}
	if !won {
		s.logger.Info("seed lock held elsewhere, skipping")
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	external, err := s.source.FetchTemplates(fetchCtx)
	if err != nil {
		s.releaseLock(ctx)
		return fmt.Errorf("fetch external templates: %w", err)
	}
	if len(external) == 0 {
		s.releaseLock(ctx)
		return fmt.Errorf("external catalog returned no templates")
	}

	now := time.Now()
	seeded := make([]models.Template, 0, len(external))
	for _, ext := range external {
		seeded = append(seeded, mapExternalTemplate(ext, now))
	}

	if err := s.templates.InsertMany(ctx, seeded); err != nil {
		s.releaseLock(ctx)
		return fmt.Errorf("insert seeded templates: %w", err)
	}

	s.logger.Info("seeded template catalog", "count", len(seeded))
	return nil
}

func clampDimension(px int) int {
	if px < models.MinTemplateDimension {
		return models.MinTemplateDimension
	}
	if px > models.MaxTemplateDimension {
		return models.MaxTemplateDimension
	}
	return px
}

func (s *SeedService) releaseLock(ctx context.Context) {
	if err := s.locks.Release(ctx, seedLockName); err != nil {
		s.logger.Warn("release seed lock failed", "error", err)
	}
}

// mapExternalTemplate shapes an external catalog record into a stored
// template: default category, random initial popularity in [0,1000), and one
// overlay region per box in the source payload. Dimensions are clamped into
// the same bounds uploads must satisfy.
func mapExternalTemplate(ext ExternalTemplate, now time.Time) models.Template {
	width := clampDimension(ext.Width)
	height := clampDimension(ext.Height)

	boxes := ext.BoxCount
	if boxes < 1 {
		// classic top/bottom captions
		boxes = 2
	}

	areas := make([]models.TextArea, 0, boxes)
	rowHeight := float64(height) / float64(boxes)
	for i := 0; i < boxes; i++ {
		areas = append(areas, models.TextArea{
			X:           0,
			Y:           rowHeight * float64(i),
			Width:       float64(width),
			Height:      rowHeight,
			FontSize:    32,
			FontFamily:  "Impact",
			Color:       "#ffffff",
			Align:       "center",
			StrokeColor: "#000000",
			StrokeWidth: 2,
		})
	}

	return models.Template{
		TemplateID: ext.ID,
		Name:       ext.Name,
		ImageURL:   ext.URL,
		Width:      width,
		Height:     height,
		Category:   seedCategory,
		TextAreas:  areas,
		Popularity: rand.Intn(seedMaxPopularity),
		Status:     models.TemplateStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
