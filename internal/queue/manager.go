package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/inventory-ui/internal/config"
	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
	"github.com/fairyhunter13/inventory-ui/internal/store"
)

// Manager runs the workers that complete orders after the configured delay.
type Manager struct {
	cfg    config.Config
	q      *Queue
	orders *store.Orders
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

func NewManager(cfg config.Config, q *Queue, orders *store.Orders) *Manager {
	return &Manager{cfg: cfg, q: q, orders: orders, now: time.Now}
}

// Start begins the broker and the configured number of workers.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.OrderQueueHighWatermark)
	m.addWorkers(m.cfg.OrderWorkers)
}

// Stop cancels the broker and all workers. Completions not yet due are dropped.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("order_workers_started", "worker_count", len(m.workerCancels))
}

// worker waits for each completion to fall due and applies it.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-m.q.Out():
			if wait := c.Due.Sub(m.now()); wait > 0 {
				t := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-t.C:
				}
			}
			m.complete(c.OrderID)
			m.q.MarkProcessed()
		}
	}
}

func (m *Manager) complete(id model.ID) {
	o, ok := m.orders.Complete(id, m.now())
	if !ok {
		obs.Logger.Warn("order_complete_skipped", "order_id", id.String())
		return
	}
	obs.Logger.Info("order_completed",
		"order_id", o.ID.String(),
		"product_id", o.ProductID.String(),
		"quantity", o.Quantity,
		"total", o.Total.String(),
	)
}

// Schedule queues completion of order id after the configured delay.
func (m *Manager) Schedule(id model.ID) bool {
	return m.q.Enqueue(Completion{OrderID: id, Due: m.now().Add(m.cfg.OrderCompletionDelay)})
}

func (m *Manager) Pending() int { return m.q.Pending() }

func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future scheduling.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// DrainUntil blocks until every scheduled completion was applied or ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		if m.q.Pending() == 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
