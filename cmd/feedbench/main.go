package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/hourglass/config"
	"github.com/d60-Lab/hourglass/internal/bench"
	"github.com/d60-Lab/hourglass/internal/cache"
	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
	"github.com/d60-Lab/hourglass/internal/service"
	pkgcache "github.com/d60-Lab/hourglass/pkg/cache"
	"github.com/d60-Lab/hourglass/pkg/database"
)

// feedbench 测量动态流组装耗时：一个查看者与 FOLLOWING 个用户互关，每人当天都有快照；
// 依次以不同并发度组装 READS 次
func main() {
	cfg := bench.Must(config.Load())
	db := bench.Must(database.InitDB(cfg))
	bench.Check(db.AutoMigrate(model.All()...))
	repos := repository.New(db)
	ctx := context.Background()

	FOLLOWING := bench.EnvInt("FOLLOWING", 200)
	READS := bench.EnvInt("READS", 50)
	HOURS := bench.EnvInt("HOURS", 12)

	var profiles service.ProfileCache
	if cfg.Redis.Enabled {
		rdb := bench.Must(pkgcache.NewRedis(ctx, cfg.Redis))
		defer func() { _ = rdb.Close() }()
		profiles = cache.NewProfileCache(rdb, cfg.Redis.TTL)
	}
	users := service.NewUserDirectory(repos, profiles, event.Nop{}, nil)
	rel := service.NewRelationshipService(repos, event.Nop{}, nil)
	store := service.NewProductivityStore(repos, event.Nop{}, nil, cfg.Feed.HistoryMaxDays)
	social := service.NewSocialService(repos, rel, nil)

	// seed
	viewer := "viewer-" + uuid.New().String()[:8]
	bench.Must(users.CreateUser(ctx, viewer, viewer+"@example.com", viewer))
	grid := model.HourMap{}
	for h := 0; h < HOURS && h < model.HoursPerDay; h++ {
		grid[h] = model.ActivityCategory{Name: "Productive", Color: model.Color{Blue: 1, Opacity: 1}}
	}
	loc := cfg.Feed.Location()
	today := store.Today(loc)
	bench.Must(store.SaveSnapshot(ctx, viewer, today, grid))

	st := time.Now()
	for i := 0; i < FOLLOWING; i++ {
		id := uuid.New().String()
		bench.Must(users.CreateUser(ctx, id, id[:8]+"@example.com", "f"+id[:12]))
		if err := rel.Follow(ctx, viewer, id); err != nil {
			panic(err)
		}
		// 每隔一个用户回关，另一半在动态流中被隐藏
		if i%2 == 0 {
			if err := rel.Follow(ctx, id, viewer); err != nil {
				panic(err)
			}
		}
		bench.Must(store.SaveSnapshot(ctx, id, today, grid))
	}
	fmt.Printf("FOLLOWING=%d READS=%d HOURS=%d seed=%v\n", FOLLOWING, READS, HOURS, time.Since(st))

	for _, conc := range []int{1, 4, 16, cfg.Feed.Concurrency} {
		feed := service.NewFeedAssembler(users, rel, store, social, nil, service.FeedOptions{
			Concurrency:  conc,
			FetchTimeout: cfg.Feed.FetchTimeout,
		}, nil)
		lat := make([]time.Duration, 0, READS)
		entries, redacted := 0, 0
		for i := 0; i < READS; i++ {
			st := time.Now()
			f, err := feed.AssembleFeed(ctx, viewer, loc)
			if err != nil {
				panic(err)
			}
			lat = append(lat, time.Since(st))
			entries = len(f.Entries)
			redacted = 0
			for _, e := range f.Entries {
				if e.Redacted {
					redacted++
				}
			}
		}
		fmt.Printf("concurrency=%d entries=%d redacted=%d avg=%v p50=%v p95=%v p99=%v\n",
			conc, entries, redacted, bench.Avg(lat), bench.Pct(lat, 0.50), bench.Pct(lat, 0.95), bench.Pct(lat, 0.99))
	}
}
