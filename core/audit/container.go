package audit

import (
	"context"

	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/lib/workerpool"
)

// ContainerWalker pages through a container listing and fans every listed
// object out to the object pool for verification.
type ContainerWalker struct {
	locator  Locator
	client   NodeClient
	stats    *Stats
	verifier *Verifier
	objects  *workerpool.Pool
}

// Walk lists the container from its primary nodes in order; the first node
// to complete pagination wins. A node failing mid-pagination is abandoned
// and the next node is tried from an empty marker.
func (w *ContainerWalker) Walk(ctx context.Context, account, container string) {
	part, primaries := w.locator.Locate(account, container, "")

	for _, n := range primaries {
		if w.walkNode(ctx, n, part, account, container) {
			w.stats.ContainersChecked.Add(1)
			return
		}
	}

	log.Errorw("container listing failed on every primary", "account", account, "container", container)
	w.stats.ContainersFailed.Add(1)
}

func (w *ContainerWalker) walkNode(ctx context.Context, n model.Node, part uint64, account, container string) bool {
	marker := ""
	for {
		entries, err := w.client.ListContainerPage(ctx, n, part, account, container, marker)
		if err != nil {
			log.Warnw("container listing page failed", "account", account, "container", container,
				"node", n.HostPort(), "device", n.Device, "marker", marker, "error", err)
			return false
		}

		if len(entries) == 0 {
			return true
		}

		for _, e := range entries {
			object := e.Name
			w.objects.Submit(func() {
				w.verifier.Verify(ctx, account, container, object)
			})
		}

		marker = entries[len(entries)-1].Name
	}
}
