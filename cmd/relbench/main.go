package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/hourglass/config"
	"github.com/d60-Lab/hourglass/internal/bench"
	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
	"github.com/d60-Lab/hourglass/internal/service"
	"github.com/d60-Lab/hourglass/pkg/database"
)

// relbench 压测关注 / 拉黑：N 个用户并发关注同一个大 V，随后并发拉黑与关注同一对用户，
// 最后校验 follows 与 fans 两张表是否完全对称
func main() {
	cfg := bench.Must(config.Load())
	db := bench.Must(database.InitDB(cfg))
	bench.Check(db.AutoMigrate(model.All()...))
	repos := repository.New(db)

	bus := event.NewBus(cfg.Events.QueueSize)
	var published atomic.Int64
	bus.Subscribe(event.HandlerFunc(func(context.Context, event.Event) { published.Add(1) }))
	stop := bus.Start(cfg.Events.Workers)
	rel := service.NewRelationshipService(repos, bus, nil)

	ctx := context.Background()
	N := bench.EnvInt("N", 10000)
	CONC := bench.EnvInt("CONC", 8)
	PAGE := bench.EnvInt("PAGE", 50)
	RACES := bench.EnvInt("RACES", 200)

	// seed: u0 为大 V，其余用户都关注它
	celeb := model.User{ID: "u0", Username: "u0", Email: "u0@example.com"}
	bench.Check(db.Where("id = ?", celeb.ID).FirstOrCreate(&celeb).Error)
	users := make([]model.User, N)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", CreatedAt: time.Now()}
	}
	bench.Check(db.CreateInBatches(&users, 1000).Error)

	followLat := run(N, CONC, func(i int) error { return rel.Follow(ctx, users[i].ID, celeb.ID) })

	q0 := time.Now()
	_, _ = rel.ListFans(ctx, celeb.ID, 1, PAGE)
	fansDur := time.Since(q0)
	q1 := time.Now()
	_, _ = rel.ListFollowing(ctx, users[0].ID, 1, PAGE)
	follDur := time.Since(q1)

	// 同一对用户上的关注与拉黑交替并发，检验不会留下半边关系
	if RACES > N {
		RACES = N
	}
	var forbidden atomic.Int64
	raceLat := run(RACES*2, CONC, func(i int) error {
		u := users[i/2].ID
		if i%2 == 0 {
			return rel.Block(ctx, celeb.ID, u)
		}
		err := rel.Follow(ctx, u, celeb.ID)
		if err != nil {
			forbidden.Add(1)
		}
		return nil
	})

	_ = stop(ctx)

	var asymmetric int64
	db.Raw(`SELECT COUNT(*) FROM follows f LEFT JOIN fans n
		ON n.user_id = f.followee_id AND n.fan_id = f.follower_id WHERE n.id IS NULL`).Scan(&asymmetric)
	var orphanFans int64
	db.Raw(`SELECT COUNT(*) FROM fans n LEFT JOIN follows f
		ON n.user_id = f.followee_id AND n.fan_id = f.follower_id WHERE f.id IS NULL`).Scan(&orphanFans)

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, RACES=%d\n", N, CONC, PAGE, RACES)
	fmt.Printf("Follow (tx, both sides) avg: %v, p50: %v, p95: %v, p99: %v\n",
		bench.Avg(followLat), bench.Pct(followLat, 0.50), bench.Pct(followLat, 0.95), bench.Pct(followLat, 0.99))
	fmt.Printf("Query fans(%d) latency: %v\n", PAGE, fansDur)
	fmt.Printf("Query following(%d) latency: %v\n", PAGE, follDur)
	fmt.Printf("Block/follow race avg: %v, p99: %v, follows rejected: %d\n",
		bench.Avg(raceLat), bench.Pct(raceLat, 0.99), forbidden.Load())
	fmt.Printf("Events published: %d\n", published.Load())
	fmt.Printf("Asymmetric follows: %d, orphan fans: %d\n", asymmetric, orphanFans)
}

// run 以 conc 个 worker 执行 n 次 op，返回每次耗时
func run(n, conc int, op func(i int) error) []time.Duration {
	if conc > n {
		conc = n
	}
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make([]time.Duration, 0, n)
	)
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				st := time.Now()
				_ = op(i)
				d := time.Since(st)
				mu.Lock()
				out = append(out, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return out
}
