package audit

import (
	"context"
	"strconv"
	"sync"

	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/rpc/node"
)

func testNodes(ids ...string) []model.Node {
	nodes := make([]model.Node, 0, len(ids))
	for i, id := range ids {
		nodes = append(nodes, model.Node{
			ID:     id,
			IP:     "10.0.0." + strconv.Itoa(i+1),
			Port:   6000,
			Device: "sd" + id,
		})
	}
	return nodes
}

type sliceIter struct {
	nodes []model.Node
	i     int
}

func (s *sliceIter) Next() (model.Node, bool) {
	if s.i >= len(s.nodes) {
		return model.Node{}, false
	}

	n := s.nodes[s.i]
	s.i++
	return n, true
}

type fakeLocator struct {
	part      uint64
	primaries []model.Node
	handoffs  []model.Node
}

func (f *fakeLocator) Locate(account, container, object string) (uint64, []model.Node) {
	return f.part, f.primaries
}

func (f *fakeLocator) Handoffs(part uint64) NodeIter {
	return &sliceIter{nodes: f.handoffs}
}

// fakeClient implements NodeClient with per-test behavior in the function
// fields and records every head/delete call. Nil behaviors default to a
// clean not-found (head), success (delete) and an empty listing.
type fakeClient struct {
	listAccount   func(n model.Node, marker string) ([]model.ContainerEntry, error)
	listContainer func(n model.Node, marker string) ([]model.ObjectEntry, error)
	head          func(n model.Node, object string) error
	del           func(n model.Node, object string) error

	mu          sync.Mutex
	headCalls   []string
	deleteCalls []string
	timestamps  []string
}

func (f *fakeClient) ListAccountPage(_ context.Context, n model.Node, _ uint64, _, marker string) ([]model.ContainerEntry, error) {
	if f.listAccount == nil {
		return nil, nil
	}
	return f.listAccount(n, marker)
}

func (f *fakeClient) ListContainerPage(_ context.Context, n model.Node, _ uint64, _, _, marker string) ([]model.ObjectEntry, error) {
	if f.listContainer == nil {
		return nil, nil
	}
	return f.listContainer(n, marker)
}

func (f *fakeClient) HeadObject(_ context.Context, n model.Node, _ uint64, _, _, object string) error {
	f.mu.Lock()
	f.headCalls = append(f.headCalls, n.ID)
	f.mu.Unlock()

	if f.head == nil {
		return node.ErrNotFound
	}
	return f.head(n, object)
}

func (f *fakeClient) DeleteContainerEntry(_ context.Context, n model.Node, _ uint64, _, _, object, timestamp string) error {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, n.ID)
	f.timestamps = append(f.timestamps, timestamp)
	f.mu.Unlock()

	if f.del == nil {
		return nil
	}
	return f.del(n, object)
}

func (f *fakeClient) headCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.headCalls)
}

func (f *fakeClient) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}
