package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/user/retroboard/internal/types"
)

const (
	snapshotPrefix = "board-"
	snapshotSuffix = ".json"
	stampLayout    = "20060102-150405.000"
)

// Source yields the document to snapshot.
type Source interface {
	Document(ctx context.Context) (*types.Document, error)
}

// Snapshotter writes timestamped copies of the board document on a cron
// schedule and prunes old ones.
type Snapshotter struct {
	source Source
	dir    string
	keep   int
	logger *zap.Logger
	now    func() time.Time
	cron   *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field, plus descriptors like @hourly.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Snapshotter writing into dir. keep <= 0 disables pruning.
func New(source Source, dir string, keep int, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{
		source: source,
		dir:    dir,
		keep:   keep,
		logger: logger,
		now:    time.Now,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Dir returns the snapshot directory.
func (s *Snapshotter) Dir() string {
	return s.dir
}

// ValidateSchedule reports whether expr parses as a cron schedule.
func ValidateSchedule(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", expr, err)
	}
	return nil
}

// Start registers the snapshot job and starts the cron ticker. An empty
// schedule leaves the snapshotter idle.
func (s *Snapshotter) Start(schedule string) error {
	if schedule == "" {
		s.logger.Info("snapshots disabled")
		return nil
	}
	_, err := s.cron.AddFunc(schedule, func() {
		path, err := s.Snapshot(context.Background())
		if err != nil {
			s.logger.Error("snapshot failed", zap.Error(err))
			return
		}
		s.logger.Info("snapshot written", zap.String("path", path))
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	s.logger.Info("snapshots scheduled", zap.String("schedule", schedule), zap.Int("keep", s.keep))
	s.cron.Start()
	return nil
}

// Stop stops the cron ticker and waits for a running snapshot to finish.
// A later Start registers the job afresh.
func (s *Snapshotter) Stop() {
	<-s.cron.Stop().Done()
	s.cron = cron.New(cron.WithParser(cronParser))
}

// Snapshot writes the current document and prunes beyond keep. It returns
// the path written.
func (s *Snapshotter) Snapshot(ctx context.Context) (string, error) {
	doc, err := s.source.Document(ctx)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := snapshotPrefix + s.now().UTC().Format(stampLayout) + snapshotSuffix
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename snapshot: %w", err)
	}

	if err := s.prune(); err != nil {
		s.logger.Warn("prune snapshots", zap.Error(err))
	}
	return path, nil
}

// List returns existing snapshot paths, oldest first.
func (s *Snapshotter) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, snapshotPrefix) || !strings.HasSuffix(n, snapshotSuffix) {
			continue
		}
		names = append(names, n)
	}
	// The timestamp layout sorts lexically in time order.
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.dir, n)
	}
	return paths, nil
}

func (s *Snapshotter) prune() error {
	if s.keep <= 0 {
		return nil
	}
	paths, err := s.List()
	if err != nil {
		return err
	}
	for len(paths) > s.keep {
		if err := os.Remove(paths[0]); err != nil {
			return err
		}
		paths = paths[1:]
	}
	return nil
}
