package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zeeshanfreelancer/memegenerator/models"
)

// callLog records cross-fake side effects in order, so tests can assert
// things like "asset deleted before the record".
type callLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *callLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// fakeTemplateStore keeps templates in memory and mirrors the store
// contract: filter by status/category, sort, skip/limit.
type fakeTemplateStore struct {
	mu        sync.Mutex
	templates []models.Template
}

func (s *fakeTemplateStore) matches(t models.Template, filter bson.M) bool {
	if status, ok := filter["status"].(string); ok && t.Status != status {
		return false
	}
	if category, ok := filter["category"].(string); ok && t.Category != category {
		return false
	}
	return true
}

func sortTemplates(ts []models.Template, sortDoc bson.D) {
	sort.SliceStable(ts, func(i, j int) bool {
		for _, field := range sortDoc {
			desc := false
			if v, ok := field.Value.(int); ok && v < 0 {
				desc = true
			}
			switch field.Key {
			case "popularity":
				if ts[i].Popularity != ts[j].Popularity {
					if desc {
						return ts[i].Popularity > ts[j].Popularity
					}
					return ts[i].Popularity < ts[j].Popularity
				}
			case "createdAt":
				if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
					if desc {
						return ts[i].CreatedAt.After(ts[j].CreatedAt)
					}
					return ts[i].CreatedAt.Before(ts[j].CreatedAt)
				}
			}
		}
		return false
	})
}

func (s *fakeTemplateStore) Find(ctx context.Context, filter bson.M, sortDoc bson.D, skip, limit int64) ([]models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Template
	for _, t := range s.templates {
		if s.matches(t, filter) {
			out = append(out, t)
		}
	}
	sortTemplates(out, sortDoc)

	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeTemplateStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, t := range s.templates {
		if s.matches(t, filter) {
			count++
		}
	}
	return count, nil
}

func (s *fakeTemplateStore) FindAllActive(ctx context.Context) ([]models.Template, error) {
	return s.Find(ctx,
		bson.M{"status": models.TemplateStatusActive},
		bson.D{{Key: "popularity", Value: -1}, {Key: "createdAt", Value: -1}},
		0, 0)
}

func (s *fakeTemplateStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.templates {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeTemplateStore) Insert(ctx context.Context, t *models.Template) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = primitive.NewObjectID()
	s.templates = append(s.templates, *t)
	return t.ID, nil
}

func (s *fakeTemplateStore) InsertMany(ctx context.Context, ts []models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range ts {
		t.ID = primitive.NewObjectID()
		s.templates = append(s.templates, t)
	}
	return nil
}

func (s *fakeTemplateStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	return s.mutate(id, func(t *models.Template) { t.Views++ })
}

func (s *fakeTemplateStore) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	return s.mutate(id, func(t *models.Template) { t.UsageCount++ })
}

func (s *fakeTemplateStore) AdjustPopularity(ctx context.Context, id primitive.ObjectID, delta int) error {
	return s.mutate(id, func(t *models.Template) {
		if delta < 0 && t.Popularity <= 0 {
			return
		}
		t.Popularity += delta
	})
}

func (s *fakeTemplateStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return s.mutate(id, func(t *models.Template) { t.Status = status })
}

func (s *fakeTemplateStore) mutate(id primitive.ObjectID, fn func(*models.Template)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.templates {
		if s.templates[i].ID == id {
			fn(&s.templates[i])
			return nil
		}
	}
	return ErrNotFound
}

// fakeUserStore tracks only the favorites sets the catalog needs.
type fakeUserStore struct {
	mu        sync.Mutex
	favorites map[primitive.ObjectID]map[primitive.ObjectID]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{favorites: make(map[primitive.ObjectID]map[primitive.ObjectID]bool)}
}

func (s *fakeUserStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	return nil, ErrNotFound
}

func (s *fakeUserStore) AddFavorite(ctx context.Context, userID, templateID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.favorites[userID]
	if set == nil {
		set = make(map[primitive.ObjectID]bool)
		s.favorites[userID] = set
	}
	if set[templateID] {
		return false, nil
	}
	set[templateID] = true
	return true, nil
}

func (s *fakeUserStore) RemoveFavorite(ctx context.Context, userID, templateID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.favorites[userID]
	if set == nil || !set[templateID] {
		return false, nil
	}
	delete(set, templateID)
	return true, nil
}

// fakeLocker mirrors the seed lock's compare-and-swap semantics.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(ctx context.Context, name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[name] {
		return false, nil
	}
	l.held[name] = true
	return true, nil
}

func (l *fakeLocker) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, name)
	return nil
}

// fakeSource serves a fixed external catalog and counts fetches.
type fakeSource struct {
	mu        sync.Mutex
	templates []ExternalTemplate
	err       error
	calls     int
}

func (s *fakeSource) FetchTemplates(ctx context.Context) ([]ExternalTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.templates, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// fakeAssetHost records uploads and deletions, optionally into a shared
// call log.
type fakeAssetHost struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	log       *callLog
	uploadErr error
}

func (h *fakeAssetHost) Upload(ctx context.Context, image, folder string) (*AssetRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.uploadErr != nil {
		return nil, h.uploadErr
	}
	h.uploads = append(h.uploads, folder)
	publicID := fmt.Sprintf("%s/asset-%d", folder, len(h.uploads))
	return &AssetRef{
		URL:      "https://assets.example.com/" + publicID,
		PublicID: publicID,
	}, nil
}

func (h *fakeAssetHost) Delete(ctx context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.deletes = append(h.deletes, publicID)
	if h.log != nil {
		h.log.add("asset:delete:" + publicID)
	}
	return nil
}

// fakeMemeStore keeps memes in memory; like updates mirror the
// $addToSet/$pull semantics of the real store.
type fakeMemeStore struct {
	mu    sync.Mutex
	memes map[primitive.ObjectID]*models.Meme
	log   *callLog
}

func newFakeMemeStore() *fakeMemeStore {
	return &fakeMemeStore{memes: make(map[primitive.ObjectID]*models.Meme)}
}

func (s *fakeMemeStore) Insert(ctx context.Context, m *models.Meme) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = primitive.NewObjectID()
	copied := *m
	s.memes[m.ID] = &copied
	return m.ID, nil
}

func (s *fakeMemeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Meme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMemeStore) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Meme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Meme
	for _, m := range s.memes {
		if createdBy, ok := filter["createdBy"].(primitive.ObjectID); ok && m.CreatedBy != createdBy {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeMemeStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, m := range s.memes {
		if createdBy, ok := filter["createdBy"].(primitive.ObjectID); ok && m.CreatedBy != createdBy {
			continue
		}
		count++
	}
	return count, nil
}

func (s *fakeMemeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memes[id]; !ok {
		return ErrNotFound
	}
	delete(s.memes, id)
	if s.log != nil {
		s.log.add("store:delete:" + id.Hex())
	}
	return nil
}

func (s *fakeMemeStore) AddLike(ctx context.Context, memeID, userID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memes[memeID]
	if !ok {
		return false, ErrNotFound
	}
	for _, id := range m.Likes {
		if id == userID {
			return false, nil
		}
	}
	m.Likes = append(m.Likes, userID)
	m.LikesCount++
	return true, nil
}

func (s *fakeMemeStore) RemoveLike(ctx context.Context, memeID, userID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memes[memeID]
	if !ok {
		return false, ErrNotFound
	}
	for i, id := range m.Likes {
		if id == userID {
			m.Likes = append(m.Likes[:i], m.Likes[i+1:]...)
			m.LikesCount--
			return true, nil
		}
	}
	return false, nil
}

func newID() primitive.ObjectID { return primitive.NewObjectID() }

// seedFixture is the canonical 3-item external catalog used across tests.
func seedFixture() []ExternalTemplate {
	return []ExternalTemplate{
		{ID: "181913649", Name: "Drake Hotline Bling", URL: "https://i.imgflip.com/30b1gx.jpg", Width: 1200, Height: 1200, BoxCount: 2},
		{ID: "87743020", Name: "Two Buttons", URL: "https://i.imgflip.com/1g8my4.jpg", Width: 600, Height: 908, BoxCount: 3},
		{ID: "112126428", Name: "Distracted Boyfriend", URL: "https://i.imgflip.com/1ur9b0.jpg", Width: 1200, Height: 800, BoxCount: 3},
	}
}

// activeTemplate builds an active template n steps old.
func activeTemplate(name string, popularity int, age time.Duration) models.Template {
	now := time.Now()
	return models.Template{
		ID:         primitive.NewObjectID(),
		Name:       name,
		ImageURL:   "https://i.imgflip.com/" + name + ".jpg",
		Width:      500,
		Height:     500,
		Category:   "popular",
		Popularity: popularity,
		Status:     models.TemplateStatusActive,
		CreatedAt:  now.Add(-age),
		UpdatedAt:  now.Add(-age),
	}
}
