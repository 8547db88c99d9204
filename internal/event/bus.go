package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/pkg/logger"
)

// Publisher 服务层依赖的最小接口
type Publisher interface {
	Publish(e Event)
}

// Handler 订阅者
type Handler interface {
	Handle(ctx context.Context, e Event)
}

type HandlerFunc func(ctx context.Context, e Event)

func (f HandlerFunc) Handle(ctx context.Context, e Event) { f(ctx, e) }

type envelope struct {
	event Event
	enqAt time.Time
}

// Bus 进程内异步事件总线：有界队列 + 固定 worker，队列满时丢弃并告警
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler

	ch      chan envelope
	stopped atomic.Bool
	wg      sync.WaitGroup
	timeout time.Duration
}

func NewBus(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Bus{ch: make(chan envelope, queueSize), timeout: 5 * time.Second}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(e Event) {
	if b.stopped.Load() {
		logger.Warn("event bus stopped, drop event", zap.String("event", e.Name()))
		return
	}
	select {
	case b.ch <- envelope{event: e, enqAt: time.Now()}:
	default:
		logger.Warn("event queue full, drop event", zap.String("event", e.Name()))
	}
}

// Start 启动 worker；返回的停止函数会先排空队列再返回（或等到 ctx 超时）
func (b *Bus) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for {
				select {
				case env := <-b.ch:
					b.dispatch(env)
				case <-stopCh:
					for {
						select {
						case env := <-b.ch:
							b.dispatch(env)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		b.stopped.Store(true)
		close(stopCh)
		done := make(chan struct{})
		go func() {
			b.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bus) dispatch(env envelope) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		func() {
			defer cancel()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("event handler panic", zap.String("event", env.event.Name()), zap.Any("panic", r))
				}
			}()
			h.Handle(ctx, env.event)
		}()
	}
	logger.Debug("event dispatched",
		zap.String("event", env.event.Name()),
		zap.Duration("latency", time.Since(env.enqAt)),
	)
}

// QueueLen 返回当前队列长度（采样值）。
func (b *Bus) QueueLen() int { return len(b.ch) }

// Nop 不投递任何事件，用于测试或未启用总线的场景
type Nop struct{}

func (Nop) Publish(Event) {}

// Recorder 同步记录事件，测试用
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
