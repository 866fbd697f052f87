package workerpool

import "sync"

// Pool runs submitted tasks on a fixed set of workers. The internal queue is
// unbounded so Submit never blocks, which keeps one pool free to feed another
// without risking deadlock.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	pending sync.WaitGroup
	closed  bool
}

func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit queues a task for execution and returns immediately.
func (p *Pool) Submit(task func()) {
	p.pending.Add(1)

	p.mu.Lock()
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.cond.Signal()
}

func (p *Pool) worker() {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}

		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}

		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()
		p.pending.Done()
	}
}

// Wait blocks until every task submitted so far has finished.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Close stops the workers once the queue is empty. Tasks submitted after
// Close may never run.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
}
