package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zeeshanfreelancer/memegenerator/models"
)

// TemplateStore is the persistence contract for the template catalog.
type TemplateStore interface {
	Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Template, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	// FindAllActive returns every active template sorted by popularity
	// descending, then creation time descending.
	FindAllActive(ctx context.Context) ([]models.Template, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error)
	Insert(ctx context.Context, t *models.Template) (primitive.ObjectID, error)
	InsertMany(ctx context.Context, ts []models.Template) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
	// AdjustPopularity applies an atomic delta; decrements never take the
	// counter below zero.
	AdjustPopularity(ctx context.Context, id primitive.ObjectID, delta int) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// UserStore is the slice of user persistence the catalog needs: token
// resolution and the favorites set.
type UserStore interface {
	FindByToken(ctx context.Context, token string) (*models.User, error)
	AddFavorite(ctx context.Context, userID, templateID primitive.ObjectID) (bool, error)
	RemoveFavorite(ctx context.Context, userID, templateID primitive.ObjectID) (bool, error)
}

// ListParams are the (already string-parsed) listing inputs. Page and Limit
// are clamped inside ListTemplates.
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Sort     string
}

// ListResult is a page of templates plus its pagination metadata.
type ListResult struct {
	Items      []models.Template
	Total      int64
	Pagination Pagination
}

// CreateTemplateInput is a user upload. Image is base64 payload handed to
// the asset host untouched.
type CreateTemplateInput struct {
	Name      string            `json:"name" validate:"required"`
	Image     string            `json:"image" validate:"required"`
	Width     int               `json:"width" validate:"required,min=100,max=5000"`
	Height    int               `json:"height" validate:"required,min=100,max=5000"`
	Category  string            `json:"category"`
	Tags      []string          `json:"tags"`
	TextAreas []models.TextArea `json:"textAreas"`
}

// TemplateService orchestrates the catalog: cached listing, lazy seeding,
// filtered store reads and the counter updates.
type TemplateService struct {
	store  TemplateStore
	users  UserStore
	seeder *SeedService
	cache  *SnapshotCache
	assets AssetHost
	logger *slog.Logger
}

func NewTemplateService(store TemplateStore, users UserStore, seeder *SeedService, cache *SnapshotCache, assets AssetHost) *TemplateService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return &TemplateService{
		store:  store,
		users:  users,
		seeder: seeder,
		cache:  cache,
		assets: assets,
		logger: logger,
	}
}

// ListTemplates serves the catalog listing. Unfiltered requests are answered
// from the snapshot cache while it is fresh; everything else seeds an empty
// store, reads bounded+counted from the store, and refreshes the snapshot as
// a side effect.
func (s *TemplateService) ListTemplates(ctx context.Context, p ListParams) (*ListResult, error) {
	page := ClampPage(p.Page)
	limit := ClampLimit(p.Limit)

	if p.Search == "" && p.Category == "" {
		if snapshot, ok := s.cache.Get(SnapshotKeyAll); ok {
			total := int64(len(snapshot))
			return &ListResult{
				Items:      PageSlice(snapshot, page, limit),
				Total:      total,
				Pagination: Paginate(total, page, limit),
			}, nil
		}
	}

	if err := s.seeder.SeedIfEmpty(ctx); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	filter := BuildTemplateFilter(p.Search, p.Category)
	filter["status"] = models.TemplateStatusActive

	skip := int64(page-1) * int64(limit)
	items, err := s.store.Find(ctx, filter, templateSort(p.Sort), skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("find templates: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count templates: %w", err)
	}

	// The only refresh trigger: every non-cached listing, filtered or not,
	// rebuilds the unfiltered snapshot. The cache is advisory, so a failed
	// refresh does not fail the request.
	if snapshot, err := s.store.FindAllActive(ctx); err != nil {
		s.logger.Warn("snapshot refresh failed", "error", err)
	} else {
		s.cache.Refresh(SnapshotKeyAll, snapshot)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Pagination: Paginate(total, page, limit),
	}, nil
}

// GetTemplate returns one template and counts the view. Non-active templates
// are visible to their owner only.
func (s *TemplateService) GetTemplate(ctx context.Context, id primitive.ObjectID, actor primitive.ObjectID) (*models.Template, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TemplateStatusActive && t.CreatedBy != actor {
		return nil, ErrNotFound
	}

	if err := s.store.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	t.Views++
	return t, nil
}

// CreateTemplate stores a user upload as a pending template. The image goes
// to the asset host; its URL and deletion handle land on the record.
func (s *TemplateService) CreateTemplate(ctx context.Context, actor primitive.ObjectID, in CreateTemplateInput) (*models.Template, error) {
	// Stored lower-cased so the record stays inside the fixed category set
	// and reachable through the (lower-cased) category filter.
	category := strings.ToLower(in.Category)
	if category == "" {
		category = "other"
	}
	if !models.ValidTemplateCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	ref, err := s.assets.Upload(ctx, in.Image, "templates")
	if err != nil {
		return nil, fmt.Errorf("upload template image: %w", err)
	}

	now := time.Now()
	t := &models.Template{
		Name:      in.Name,
		ImageURL:  ref.URL,
		PublicID:  ref.PublicID,
		Width:     in.Width,
		Height:    in.Height,
		Category:  category,
		Tags:      models.NormalizeTags(in.Tags),
		TextAreas: in.TextAreas,
		Status:    models.TemplateStatusPending,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.store.Insert(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	t.ID = id
	return t, nil
}

// ArchiveTemplate sets an owner's template to archived. Records are never
// hard-deleted.
func (s *TemplateService) ArchiveTemplate(ctx context.Context, actor, id primitive.ObjectID) error {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t.CreatedBy != actor {
		return ErrForbidden
	}
	return s.store.SetStatus(ctx, id, models.TemplateStatusArchived)
}

// ToggleFavorite flips the acting user's favorite for a template and keeps
// popularity in step: +1 on add, -1 on remove, never below zero. Returns the
// new favorite state and popularity.
func (s *TemplateService) ToggleFavorite(ctx context.Context, actor, id primitive.ObjectID) (bool, int, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return false, 0, err
	}

	added, err := s.users.AddFavorite(ctx, actor, id)
	if err != nil {
		return false, 0, fmt.Errorf("add favorite: %w", err)
	}

	favorited := added
	delta := 1
	if !added {
		// already favorited: this call is the un-favorite
		if _, err := s.users.RemoveFavorite(ctx, actor, id); err != nil {
			return false, 0, fmt.Errorf("remove favorite: %w", err)
		}
		favorited = false
		delta = -1
	}

	if err := s.store.AdjustPopularity(ctx, id, delta); err != nil {
		return false, 0, fmt.Errorf("adjust popularity: %w", err)
	}

	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	return favorited, t.Popularity, nil
}
