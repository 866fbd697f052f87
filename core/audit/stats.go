package audit

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Stats counts every terminal outcome of one audit pass. All counters are
// safe for concurrent increment; read them only after the auditor drained.
type Stats struct {
	AccountsChecked    atomic.Int64
	AccountsFailed     atomic.Int64
	ContainersChecked  atomic.Int64
	ContainersFailed   atomic.Int64
	ObjectsChecked     atomic.Int64
	MissingObjects     atomic.Int64
	PotentiallyMissing atomic.Int64
	ObjectsDeleted     atomic.Int64
}

// Snapshot is a plain copy of the counters, usable for persistence.
type Snapshot struct {
	AccountsChecked    int64 `json:"accounts_checked"`
	AccountsFailed     int64 `json:"accounts_failed"`
	ContainersChecked  int64 `json:"containers_checked"`
	ContainersFailed   int64 `json:"containers_failed"`
	ObjectsChecked     int64 `json:"objects_checked"`
	MissingObjects     int64 `json:"missing_objects"`
	PotentiallyMissing int64 `json:"potentially_missing"`
	ObjectsDeleted     int64 `json:"objects_deleted"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		AccountsChecked:    s.AccountsChecked.Load(),
		AccountsFailed:     s.AccountsFailed.Load(),
		ContainersChecked:  s.ContainersChecked.Load(),
		ContainersFailed:   s.ContainersFailed.Load(),
		ObjectsChecked:     s.ObjectsChecked.Load(),
		MissingObjects:     s.MissingObjects.Load(),
		PotentiallyMissing: s.PotentiallyMissing.Load(),
		ObjectsDeleted:     s.ObjectsDeleted.Load(),
	}
}

// Report renders the end-of-run summary.
func (s *Stats) Report() string {
	snap := s.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "Accounts checked: %d\n", snap.AccountsChecked)
	if snap.AccountsFailed > 0 {
		fmt.Fprintf(&b, "Account listing failures: %d\n", snap.AccountsFailed)
	}
	fmt.Fprintf(&b, "Containers checked: %d\n", snap.ContainersChecked)
	if snap.ContainersFailed > 0 {
		fmt.Fprintf(&b, "Container listing failures: %d\n", snap.ContainersFailed)
	}
	fmt.Fprintf(&b, "Objects checked: %d\n", snap.ObjectsChecked)
	fmt.Fprintf(&b, "Missing objects: %d\n", snap.MissingObjects)
	fmt.Fprintf(&b, "Objects deleted: %d\n", snap.ObjectsDeleted)
	fmt.Fprintf(&b, "Potentially missing objects: %d\n", snap.PotentiallyMissing)
	if snap.PotentiallyMissing > 0 {
		b.WriteString("Note: potentially missing objects hit a node error or timeout during\n" +
			"verification, so absence could not be confirmed. They were not deleted.\n")
	}

	return b.String()
}
