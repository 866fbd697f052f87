package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	ds "github.com/ipfs/go-datastore"
	dsq "github.com/ipfs/go-datastore/query"
	dslvl "github.com/ipfs/go-ds-leveldb"
)

// Report is one finished audit pass, persisted so successive passes over the
// same cluster can be compared.
type Report struct {
	ID         uuid.UUID `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DeleteMode bool      `json:"delete_mode"`
	Stats      Snapshot  `json:"stats"`
}

// ReportStore keeps past audit reports in a local leveldb datastore keyed by
// run id.
type ReportStore struct {
	reports *dslvl.Datastore
}

func NewReportStore(path string) (*ReportStore, error) {
	store, err := dslvl.NewDatastore(path, nil)
	if err != nil {
		return nil, err
	}

	return &ReportStore{
		reports: store,
	}, nil
}

func (r *ReportStore) Put(ctx context.Context, report Report) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}

	k := ds.NewKey(report.ID.String())
	return r.reports.Put(ctx, k, b)
}

func (r *ReportStore) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	k := ds.NewKey(id.String())
	b, err := r.reports.Get(ctx, k)
	if err != nil {
		return nil, err
	}

	var report Report
	err = json.Unmarshal(b, &report)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *ReportStore) All(ctx context.Context) ([]*Report, error) {
	q := dsq.Query{}
	reports := make([]*Report, 0)

	res, err := r.reports.Query(ctx, q)
	if err != nil {
		return reports, err
	}

	for {
		e, hasNext := res.NextSync()
		if !hasNext {
			break
		}

		var report Report
		err = json.Unmarshal(e.Value, &report)
		if err != nil {
			return reports, err
		}
		reports = append(reports, &report)
	}

	return reports, err
}

func (r *ReportStore) Close() error {
	return r.reports.Close()
}
