package audit

import (
	"context"
	"errors"

	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/rpc/node"
)

// Verifier decides, for one listed object, whether any storage node still
// holds a replica.
type Verifier struct {
	locator Locator
	client  NodeClient
	stats   *Stats
	sink    *ErrorSink
	delete  bool
}

// Verify queries the object's primaries plus lazily-drawn handoffs, capped
// at twice the primary count in total, and classifies the object. A node
// error is never read as absence: one failed check with zero live replicas
// makes the object potentially missing, not missing.
func (v *Verifier) Verify(ctx context.Context, account, container, object string) model.VerificationOutcome {
	v.stats.ObjectsChecked.Add(1)

	part, primaries := v.locator.Locate(account, container, object)

	candidates := make([]model.Node, 0, 2*len(primaries))
	candidates = append(candidates, primaries...)
	handoffs := v.locator.Handoffs(part)
	for len(candidates) < 2*len(primaries) {
		n, ok := handoffs.Next()
		if !ok {
			break
		}
		candidates = append(candidates, n)
	}

	p := model.Path{Account: account, Container: container, Object: object}

	var found, failures int
	for _, n := range candidates {
		err := v.client.HeadObject(ctx, n, part, account, container, object)
		switch {
		case err == nil:
			found++
		case errors.Is(err, node.ErrNotFound):
			// expected negative, not a failure
		default:
			failures++
			log.Warnw("object check failed", "path", p.String(), "node", n.HostPort(), "device", n.Device, "error", err)
		}
	}

	switch {
	case found > 0:
		return model.OutcomeFound

	case failures == 0:
		log.Infow("object missing on all queried nodes", "path", p.String())
		v.stats.MissingObjects.Add(1)

		if v.sink != nil {
			if err := v.sink.Append(p.String()); err != nil {
				log.Errorw("error file write failed", "path", p.String(), "error", err)
			}
		}

		if v.delete {
			if v.deleteListingEntry(ctx, account, container, object) == model.DeleteSucceeded {
				v.stats.ObjectsDeleted.Add(1)
			}
		}

		return model.OutcomeMissing

	default:
		v.stats.PotentiallyMissing.Add(1)
		return model.OutcomeAmbiguous
	}
}

// deleteListingEntry writes a tombstone for the object to every primary
// container node. Success requires that no node errors; there is no quorum
// and no retry, and every node is contacted even after a failure.
func (v *Verifier) deleteListingEntry(ctx context.Context, account, container, object string) model.DeleteOutcome {
	part, primaries := v.locator.Locate(account, container, "")
	ts := node.Timestamp()

	outcome := model.DeleteSucceeded
	for _, n := range primaries {
		if err := v.client.DeleteContainerEntry(ctx, n, part, account, container, object, ts); err != nil {
			log.Errorw("tombstone write failed", "node", n.HostPort(), "device", n.Device, "error", err)
			outcome = model.DeleteFailed
		}
	}

	return outcome
}
