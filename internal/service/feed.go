package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/repository"
)

// PageSize is the fixed feed page size. A page shorter than this is the
// last page of its partition.
const PageSize = 12

const (
	kindStories           = "stories"
	kindStoriesStats      = "stories-stats"
	kindStoryReviews      = "story-reviews"
	kindCollections       = "collections"
	kindPublicCollections = "public-collections"
	kindCollectionStories = "collection-with-stories"
)

// FeedQuery identifies one feed partition: a free-text search term and a
// genre filter. model.GenreAll (or empty) means no genre restriction.
type FeedQuery struct {
	Search string
	Genre  string
}

// StorySnapshot is the feed projection of a story.
type StorySnapshot struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Genre          string    `json:"genre"`
	AuthorID       string    `json:"author_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsPublished    bool      `json:"is_published"`
	WordCount      int       `json:"word_count"`
	AuthorUsername *string   `json:"author_username,omitempty"`
	AuthorAvatar   *string   `json:"author_avatar,omitempty"`
	AverageRating  float64   `json:"average_rating"`
	ReviewCount    int       `json:"review_count"`
}

// StoryPage is one fetched feed page. NextPage is set iff the page holds
// exactly PageSize rows.
type StoryPage struct {
	Data     []StorySnapshot `json:"data"`
	NextPage *int            `json:"next_page,omitempty"`
}

// FeedService serves the paginated published-story feed.
type FeedService struct {
	stories repository.StoryRepository
	loader  *cache.Loader
}

func NewFeedService(stories repository.StoryRepository, loader *cache.Loader) *FeedService {
	return &FeedService{stories: stories, loader: loader}
}

// FetchPage fetches one page of the partition q. Pages are cached per
// (search, genre, page); concurrent identical fetches are deduplicated.
func (s *FeedService) FetchPage(ctx context.Context, q FeedQuery, page int) (*StoryPage, error) {
	key := cache.NewKey(kindStories, q.Search, q.Genre, strconv.Itoa(page))
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) (*StoryPage, error) {
		return s.fetchPage(ctx, q, page)
	})
}

func (s *FeedService) fetchPage(ctx context.Context, q FeedQuery, page int) (*StoryPage, error) {
	genre := q.Genre
	if genre == model.GenreAll {
		genre = ""
	}
	rows, err := s.stories.ListPublished(ctx,
		repository.StoryFilter{Search: q.Search, Genre: genre},
		page*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	out := &StoryPage{Data: make([]StorySnapshot, 0, len(rows))}
	for _, row := range rows {
		out.Data = append(out.Data, snapshotFromRow(row))
	}
	if len(rows) == PageSize {
		next := page + 1
		out.NextPage = &next
	}
	return out, nil
}

func snapshotFromRow(row repository.StoryRow) StorySnapshot {
	return StorySnapshot{
		ID:             row.ID,
		Title:          row.Title,
		Content:        row.Content,
		Genre:          row.Genre,
		AuthorID:       row.AuthorID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		IsPublished:    row.IsPublished,
		WordCount:      row.WordCount,
		AuthorUsername: row.AuthorUsername,
		AuthorAvatar:   row.AuthorAvatar,
		// TODO: join the review aggregates here; stats and the review
		// listing compute real values, the feed still reports zero.
		AverageRating: 0,
		ReviewCount:   0,
	}
}

// Feed accumulates fetched pages for one partition and flattens them for
// display. Callers drive it with FetchMore and must sequence calls: the
// next page is requested only after the previous fetch returned.
type Feed struct {
	svc   *FeedService
	query FeedQuery

	mu           sync.Mutex
	pages        []*StoryPage
	nextPage     *int
	started      bool
	loading      bool
	fetchingMore bool
	err          error
}

// NewFeed starts a feed session for the partition q. No fetch happens
// until the first FetchMore.
func (s *FeedService) NewFeed(q FeedQuery) *Feed {
	return &Feed{svc: s, query: q}
}

// FetchMore fetches the next page. It is a no-op once the partition is
// exhausted. A failed fetch leaves already-fetched pages intact.
func (f *Feed) FetchMore(ctx context.Context) error {
	f.mu.Lock()
	if f.started && f.nextPage == nil {
		f.mu.Unlock()
		return nil
	}
	page := 0
	if f.started {
		page = *f.nextPage
	}
	if f.started {
		f.fetchingMore = true
	} else {
		f.loading = true
	}
	f.mu.Unlock()

	res, err := f.svc.FetchPage(ctx, f.query, page)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.fetchingMore = false
	if err != nil {
		f.err = err
		return err
	}
	f.started = true
	f.err = nil
	f.pages = append(f.pages, res)
	f.nextPage = res.NextPage
	return nil
}

// Stories returns all fetched pages flattened in request order.
func (f *Feed) Stories() []StorySnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []StorySnapshot
	for _, p := range f.pages {
		out = append(out, p.Data...)
	}
	return out
}

// HasMore reports whether another page can be requested. It is true
// before the first fetch and false once a short page has been seen.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.started || f.nextPage != nil
}

// Loading reports whether the very first page fetch is in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// FetchingMore reports whether a fetch past the first page is in flight;
// the already-fetched list stays valid while it is true.
func (f *Feed) FetchingMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchingMore
}

// Err returns the error of the most recent failed fetch, nil after a
// successful one.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
