package ring

import (
	"errors"
	"sort"
	"strconv"

	xx "github.com/cespare/xxhash/v2"

	"github.com/pyropy/ringaudit/core/model"
)

const vnodesPerDevice = 64

var (
	ErrNoDevices = errors.New("ring has no devices")
	ErrPartPower = errors.New("invalid partition power")
)

type vnode struct {
	hash uint64
	node model.Node
}

// Ring maps hierarchy paths onto partitions and partitions onto an ordered
// node set via a consistent-hash ring of virtual nodes. It is immutable once
// built and safe for concurrent use.
type Ring struct {
	vnodes    []vnode
	replicas  int
	partCount uint64
}

func New(devices []model.Node, replicas, partPower int) (*Ring, error) {
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}

	if partPower < 1 || partPower > 32 {
		return nil, ErrPartPower
	}

	if replicas < 1 {
		replicas = 1
	}
	if replicas > len(devices) {
		replicas = len(devices)
	}

	r := &Ring{
		replicas:  replicas,
		partCount: 1 << uint(partPower),
	}

	for _, d := range devices {
		for i := 0; i < vnodesPerDevice; i++ {
			h := xx.Sum64String(d.ID + ":" + strconv.Itoa(i))
			r.vnodes = append(r.vnodes, vnode{hash: h, node: d})
		}
	}

	sort.Slice(r.vnodes, func(i, j int) bool { return r.vnodes[i].hash < r.vnodes[j].hash })

	return r, nil
}

// Locate returns the partition for a hierarchy path and its primary nodes,
// in preference order. Container and object may be empty for lookups higher
// up the hierarchy.
func (r *Ring) Locate(account, container, object string) (uint64, []model.Node) {
	key := "/" + account
	if container != "" {
		key += "/" + container
	}
	if object != "" {
		key += "/" + object
	}

	part := xx.Sum64String(key) % r.partCount
	return part, r.pick(part, r.replicas, nil)
}

// Replicas reports how many primaries each partition is assigned.
func (r *Ring) Replicas() int {
	return r.replicas
}

// pick walks the ring clockwise from the partition point collecting n
// distinct devices, skipping ids present in omit.
func (r *Ring) pick(part uint64, n int, omit map[string]struct{}) []model.Node {
	start := r.search(part)
	seen := make(map[string]struct{}, n+len(omit))
	for id := range omit {
		seen[id] = struct{}{}
	}

	res := make([]model.Node, 0, n)
	for j := 0; len(res) < n && j < len(r.vnodes); j++ {
		vn := r.vnodes[(start+j)%len(r.vnodes)]
		if _, ok := seen[vn.node.ID]; ok {
			continue
		}
		seen[vn.node.ID] = struct{}{}
		res = append(res, vn.node)
	}

	return res
}

func (r *Ring) search(part uint64) int {
	h := xx.Sum64String("part-" + strconv.FormatUint(part, 10))
	i := sort.Search(len(r.vnodes), func(i int) bool { return r.vnodes[i].hash >= h })
	return i % len(r.vnodes)
}
