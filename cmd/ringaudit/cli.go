package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pyropy/ringaudit/core/audit"
	"github.com/pyropy/ringaudit/core/model"
	"github.com/pyropy/ringaudit/core/ring"
	"github.com/pyropy/ringaudit/rpc/node"
)

func newApp(cfg *audit.Config) *cli.App {
	return &cli.App{
		Name:      "ringaudit",
		Usage:     "Audit listing entries against storage node replicas",
		ArgsUsage: "[account[/container[/object]] ...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Value:   cfg.Concurrency,
				Usage:   "Total worker budget shared by the container and object tiers",
			},
			&cli.StringFlag{
				Name:    "ring-dir",
				Aliases: []string{"r"},
				Value:   cfg.RingDir,
				Usage:   "Directory holding the ring devices file",
			},
			&cli.StringFlag{
				Name:    "error-file",
				Aliases: []string{"e"},
				Value:   cfg.ErrorFile,
				Usage:   "Append confirmed-missing object paths to this file",
			},
			&cli.BoolFlag{
				Name:    "delete",
				Aliases: []string{"d"},
				Value:   cfg.Delete,
				Usage:   "Remove listing entries for confirmed-missing objects",
			},
			&cli.StringFlag{
				Name:  "report-store",
				Value: cfg.ReportStore,
				Usage: "Leveldb directory to persist the run report into",
			},
			&cli.DurationFlag{
				Name:  "connect-timeout",
				Value: cfg.ConnectTimeout,
				Usage: "Per-RPC connection establishment budget",
			},
			&cli.DurationFlag{
				Name:  "response-timeout",
				Value: cfg.ResponseTimeout,
				Usage: "Per-RPC response budget",
			},
		},
		Action: runAudit,
	}
}

func runAudit(c *cli.Context) error {
	var stdin io.Reader
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		stdin = os.Stdin
	}

	paths, err := gatherPaths(c.Args().Slice(), stdin)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		cli.ShowAppHelp(c)
		return nil
	}

	cfg := &audit.Config{
		Concurrency:     c.Int("concurrency"),
		RingDir:         c.String("ring-dir"),
		ConnectTimeout:  c.Duration("connect-timeout"),
		ResponseTimeout: c.Duration("response-timeout"),
		ErrorFile:       c.String("error-file"),
		Delete:          c.Bool("delete"),
		ReportStore:     c.String("report-store"),
	}

	r, err := ring.Load(cfg.RingDir)
	if err != nil {
		return fmt.Errorf("loading ring from %s: %w", cfg.RingDir, err)
	}

	client := node.NewClient(node.Timeouts{
		Connect:  cfg.ConnectTimeout,
		Response: cfg.ResponseTimeout,
	})

	var sink *audit.ErrorSink
	if cfg.ErrorFile != "" {
		sink, err = audit.NewErrorSink(cfg.ErrorFile)
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	ctx := context.Background()
	started := time.Now()

	a := audit.New(ringLocator{r}, client, cfg, sink)
	for _, p := range paths {
		a.Audit(ctx, p)
	}
	a.Drain()

	fmt.Fprint(c.App.Writer, a.Stats.Report())

	if cfg.ReportStore != "" {
		return persistReport(ctx, cfg, a, started)
	}

	return nil
}

func persistReport(ctx context.Context, cfg *audit.Config, a *audit.Auditor, started time.Time) error {
	store, err := audit.NewReportStore(cfg.ReportStore)
	if err != nil {
		return err
	}
	defer store.Close()

	report := audit.Report{
		ID:         uuid.New(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		DeleteMode: cfg.Delete,
		Stats:      a.Stats.Snapshot(),
	}

	if err := store.Put(ctx, report); err != nil {
		return err
	}

	log.Infow("report persisted", "id", report.ID, "store", cfg.ReportStore)
	return nil
}

// gatherPaths collects audit targets from positional arguments plus
// newline-delimited paths from stdin, which the caller passes as nil when it
// is an interactive terminal.
func gatherPaths(args []string, stdin io.Reader) ([]model.Path, error) {
	var paths []model.Path

	for _, a := range args {
		p, err := model.ParsePath(a)
		if err != nil {
			return nil, fmt.Errorf("bad path %q: %w", a, err)
		}
		paths = append(paths, p)
	}

	if stdin == nil {
		return paths, nil
	}

	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		p, err := model.ParsePath(line)
		if err != nil {
			return nil, fmt.Errorf("bad path %q: %w", line, err)
		}
		paths = append(paths, p)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return paths, nil
}

// ringLocator adapts *ring.Ring to the audit.Locator interface: the concrete
// handoff iterator becomes the consumer-side NodeIter.
type ringLocator struct {
	*ring.Ring
}

func (r ringLocator) Handoffs(part uint64) audit.NodeIter {
	return r.Ring.Handoffs(part)
}
