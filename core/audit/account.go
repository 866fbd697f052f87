package audit

import (
	"context"

	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/lib/workerpool"
)

// AccountWalker pages through an account listing and fans every listed
// container out to the container pool.
type AccountWalker struct {
	locator    Locator
	client     NodeClient
	stats      *Stats
	containers *ContainerWalker
	pool       *workerpool.Pool
}

// Walk lists the account from its primary nodes in order with the same
// first-success, node-level-retry policy as the container walker.
func (w *AccountWalker) Walk(ctx context.Context, account string) {
	part, primaries := w.locator.Locate(account, "", "")

	for _, n := range primaries {
		if w.walkNode(ctx, n, part, account) {
			w.stats.AccountsChecked.Add(1)
			return
		}
	}

	log.Errorw("account listing failed on every primary", "account", account)
	w.stats.AccountsFailed.Add(1)
}

func (w *AccountWalker) walkNode(ctx context.Context, n model.Node, part uint64, account string) bool {
	marker := ""
	for {
		entries, err := w.client.ListAccountPage(ctx, n, part, account, marker)
		if err != nil {
			log.Warnw("account listing page failed", "account", account,
				"node", n.HostPort(), "device", n.Device, "marker", marker, "error", err)
			return false
		}

		if len(entries) == 0 {
			return true
		}

		for _, e := range entries {
			container := e.Name
			w.pool.Submit(func() {
				w.containers.Walk(ctx, account, container)
			})
		}

		marker = entries[len(entries)-1].Name
	}
}
