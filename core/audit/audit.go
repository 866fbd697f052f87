// Package audit walks the account/container/object listing hierarchy and
// verifies that every listed object still has at least one retrievable
// replica on the storage nodes responsible for it.
package audit

import (
	"context"

	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/lib/logger"
)

var log, _ = logger.New("audit")

// Locator resolves hierarchy paths to a partition and its nodes. Implemented
// by core/ring.
type Locator interface {
	Locate(account, container, object string) (part uint64, primaries []model.Node)
	Handoffs(part uint64) NodeIter
}

// NodeIter yields handoff nodes lazily, in fallback order.
type NodeIter interface {
	Next() (model.Node, bool)
}

// NodeClient issues the four storage-node RPCs. Implemented by rpc/node;
// HeadObject and DeleteContainerEntry report a clean miss as
// node.ErrNotFound.
type NodeClient interface {
	ListAccountPage(ctx context.Context, n model.Node, part uint64, account, marker string) ([]model.ContainerEntry, error)
	ListContainerPage(ctx context.Context, n model.Node, part uint64, account, container, marker string) ([]model.ObjectEntry, error)
	HeadObject(ctx context.Context, n model.Node, part uint64, account, container, object string) error
	DeleteContainerEntry(ctx context.Context, n model.Node, part uint64, account, container, object, timestamp string) error
}
