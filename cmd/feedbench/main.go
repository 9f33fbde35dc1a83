package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/repository"
	"github.com/storyverse/storyverse/internal/service"
	"github.com/storyverse/storyverse/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// Compares feed page reads straight from the database against reads
// through the redis page cache. Needs a reachable redis (REDIS_ADDR,
// default localhost:6379).
func main() {
	ctx := context.Background()

	db := must(gorm.Open(sqlite.Open(":memory:"), &gorm.Config{}))
	mustDo(database.Migrate(db))

	stories := 5000
	if s := os.Getenv("STORIES"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			stories = v
		}
	}
	reads := 2000
	if s := os.Getenv("READS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			reads = v
		}
	}

	genres := model.StoryGenres
	base := time.Now()
	authors := make([]model.Profile, 50)
	for i := range authors {
		authors[i] = model.Profile{ID: uuid.NewString(), Username: fmt.Sprintf("author_%d", i)}
	}
	mustDo(db.CreateInBatches(&authors, 200).Error)

	rows := make([]model.Story, stories)
	for i := range rows {
		rows[i] = model.Story{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Story %d", i),
			Content:     fmt.Sprintf("Body of story %d", i),
			Genre:       genres[i%len(genres)].Value,
			AuthorID:    authors[i%len(authors)].ID,
			IsPublished: true,
			WordCount:   500 + i%2000,
			CreatedAt:   base.Add(-time.Duration(i) * time.Second),
		}
	}
	mustDo(db.CreateInBatches(&rows, 500).Error)
	fmt.Printf("seeded %d stories\n", stories)

	repo := repository.NewStoryRepository(db)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	uncached := service.NewFeedService(repo, cache.NewLoader(nil))
	cached := service.NewFeedService(repo, cache.NewLoader(cache.NewRedisCache(client, 10*time.Minute)))

	run := func(name string, svc *service.FeedService) {
		lat := make([]time.Duration, 0, reads)
		q := service.FeedQuery{Genre: model.GenreAll}
		for i := 0; i < reads; i++ {
			page := i % 10
			start := time.Now()
			if _, err := svc.FetchPage(ctx, q, page); err != nil {
				panic(err)
			}
			lat = append(lat, time.Since(start))
		}
		fmt.Printf("%-10s p50=%v p95=%v p99=%v\n", name, pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
	}

	run("direct", uncached)
	run("cached", cached)
}
