package audit

import (
	"context"

	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/lib/workerpool"
)

// Auditor wires the walkers, the verifier and the two worker pools together
// and dispatches incoming hierarchy paths to the right tier.
type Auditor struct {
	Stats *Stats

	verifier   *Verifier
	containers *ContainerWalker
	accounts   *AccountWalker
	cpool      *workerpool.Pool
	opool      *workerpool.Pool
}

// New builds an Auditor. The concurrency budget is split between the two
// tiers: a quarter for container listings, the rest for object checks, since
// each container fans out to many objects.
func New(locator Locator, client NodeClient, cfg *Config, sink *ErrorSink) *Auditor {
	stats := &Stats{}
	cpool := workerpool.New(max(1, cfg.Concurrency/4))
	opool := workerpool.New(max(1, 3*cfg.Concurrency/4))

	verifier := &Verifier{
		locator: locator,
		client:  client,
		stats:   stats,
		sink:    sink,
		delete:  cfg.Delete,
	}

	containers := &ContainerWalker{
		locator:  locator,
		client:   client,
		stats:    stats,
		verifier: verifier,
		objects:  opool,
	}

	accounts := &AccountWalker{
		locator:    locator,
		client:     client,
		stats:      stats,
		containers: containers,
		pool:       cpool,
	}

	return &Auditor{
		Stats:      stats,
		verifier:   verifier,
		containers: containers,
		accounts:   accounts,
		cpool:      cpool,
		opool:      opool,
	}
}

// Audit dispatches one path: objects go straight to the object pool,
// containers to the container pool, accounts are walked on the caller since
// they immediately fan into the pools anyway.
func (a *Auditor) Audit(ctx context.Context, p model.Path) {
	switch {
	case p.Object != "":
		a.opool.Submit(func() { a.verifier.Verify(ctx, p.Account, p.Container, p.Object) })
	case p.Container != "":
		a.cpool.Submit(func() { a.containers.Walk(ctx, p.Account, p.Container) })
	default:
		a.accounts.Walk(ctx, p.Account)
	}
}

// Drain blocks until both pools are idle and stops the workers. Stats must
// not be read before Drain returns. Container tasks only ever submit to the
// object pool, so waiting for the container tier first is sufficient.
func (a *Auditor) Drain() {
	a.cpool.Wait()
	a.opool.Wait()
	a.cpool.Close()
	a.opool.Close()
}

func max(x, y int) int {
	if x > y {
		return x
	}

	return y
}
