package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zeeshanfreelancer/memegenerator/models"
)

// MemeStore is the persistence contract for user-created memes. AddLike and
// RemoveLike are atomic set-membership updates that also keep likesCount in
// step; they report whether the set actually changed.
type MemeStore interface {
	Insert(ctx context.Context, m *models.Meme) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Meme, error)
	Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Meme, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, memeID, userID primitive.ObjectID) (bool, error)
	RemoveLike(ctx context.Context, memeID, userID primitive.ObjectID) (bool, error)
}

// CreateMemeInput builds a meme from an active template. Image, when set, is
// a custom base64 upload replacing the template image.
type CreateMemeInput struct {
	TemplateID string            `json:"templateId" validate:"required"`
	Texts      []models.MemeText `json:"texts" validate:"required,min=1,dive"`
	Image      string            `json:"image"`
}

// MemeListResult is a page of memes plus pagination metadata.
type MemeListResult struct {
	Items      []models.Meme
	Total      int64
	Pagination Pagination
}

// MemeService handles meme creation, listing, like toggles and deletion.
type MemeService struct {
	memes     MemeStore
	templates TemplateStore
	assets    AssetHost
	logger    *slog.Logger
}

func NewMemeService(memes MemeStore, templates TemplateStore, assets AssetHost) *MemeService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return &MemeService{
		memes:     memes,
		templates: templates,
		assets:    assets,
		logger:    logger,
	}
}

// CreateMeme persists a meme from an active template and counts the
// template usage. A custom image goes through the asset host and keeps its
// deletion handle on the record.
func (s *MemeService) CreateMeme(ctx context.Context, actor primitive.ObjectID, in CreateMemeInput) (*models.Meme, error) {
	templateID, err := primitive.ObjectIDFromHex(in.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed template id", ErrInvalidInput)
	}

	t, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TemplateStatusActive {
		return nil, ErrNotFound
	}

	imageURL := t.ImageURL
	publicID := ""
	if in.Image != "" {
		ref, err := s.assets.Upload(ctx, in.Image, "memes")
		if err != nil {
			return nil, fmt.Errorf("upload meme image: %w", err)
		}
		imageURL = ref.URL
		publicID = ref.PublicID
	}

	m := &models.Meme{
		CreatedBy: actor,
		Template:  templateID,
		ImageURL:  imageURL,
		PublicID:  publicID,
		Texts:     in.Texts,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	id, err := s.memes.Insert(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert meme: %w", err)
	}
	m.ID = id

	if err := s.templates.IncrementUsage(ctx, templateID); err != nil {
		s.logger.Warn("increment template usage failed", "template", templateID.Hex(), "error", err)
	}

	return m, nil
}

// GetMeme returns one meme by id.
func (s *MemeService) GetMeme(ctx context.Context, id primitive.ObjectID) (*models.Meme, error) {
	return s.memes.FindByID(ctx, id)
}

// ListMemes pages through memes newest-first. A non-zero createdBy restricts
// the listing to one user's memes.
func (s *MemeService) ListMemes(ctx context.Context, createdBy primitive.ObjectID, page, limit int) (*MemeListResult, error) {
	page = ClampPage(page)
	limit = ClampLimit(limit)

	filter := bson.M{}
	if !createdBy.IsZero() {
		filter["createdBy"] = createdBy
	}

	skip := int64(page-1) * int64(limit)
	items, err := s.memes.Find(ctx, filter, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("find memes: %w", err)
	}

	total, err := s.memes.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count memes: %w", err)
	}

	return &MemeListResult{
		Items:      items,
		Total:      total,
		Pagination: Paginate(total, page, limit),
	}, nil
}

// ToggleLike adds the user to the meme's like set, or removes them when
// already present. Both directions are atomic store updates, so concurrent
// toggles by different users cannot lose each other's writes. Returns the
// new liked state and like count.
func (s *MemeService) ToggleLike(ctx context.Context, actor, memeID primitive.ObjectID) (bool, int, error) {
	if _, err := s.memes.FindByID(ctx, memeID); err != nil {
		return false, 0, err
	}

	liked := true
	added, err := s.memes.AddLike(ctx, memeID, actor)
	if err != nil {
		return false, 0, fmt.Errorf("add like: %w", err)
	}
	if !added {
		if _, err := s.memes.RemoveLike(ctx, memeID, actor); err != nil {
			return false, 0, fmt.Errorf("remove like: %w", err)
		}
		liked = false
	}

	m, err := s.memes.FindByID(ctx, memeID)
	if err != nil {
		return false, 0, err
	}
	return liked, m.LikesCount, nil
}

// DeleteMeme removes an owner's meme. A custom upload triggers exactly one
// asset deletion before the record goes away; a failed deletion keeps the
// record so the asset is not orphaned silently.
func (s *MemeService) DeleteMeme(ctx context.Context, actor, id primitive.ObjectID) error {
	m, err := s.memes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.CreatedBy != actor {
		return ErrForbidden
	}

	if m.PublicID != "" {
		if err := s.assets.Delete(ctx, m.PublicID); err != nil {
			return fmt.Errorf("delete meme asset: %w", err)
		}
	}

	return s.memes.Delete(ctx, id)
}
