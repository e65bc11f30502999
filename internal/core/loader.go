package core

// loader.go turns the dataset resource into a published Snapshot.
//
// The flow is fetch → read → parse → aggregate → publish. Every failure is
// terminal for the attempt: the store is marked failed and nothing from the
// attempt becomes visible.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCompliantKeyword is the status value that marks a locality as
// compliant when no keyword is configured.
const DefaultCompliantKeyword = "INTEGRADO"

// Source fetches a raw resource. Implementations live in internal/source.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
	Location() string
}

// LoadObserver is notified after every load attempt. snap is nil on failure.
type LoadObserver interface {
	ObserveLoad(err error, duration time.Duration, snap *Snapshot)
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Source   Source
	Store    *Store
	Keyword  string
	MaxBytes int64
	Observer LoadObserver
}

// Loader loads the dataset and publishes it to a Store.
type Loader struct {
	source   Source
	store    *Store
	keyword  string
	maxBytes int64
	observer LoadObserver
	gate     *LoadGate
	now      func() time.Time
}

// NewLoader validates opts and returns a Loader.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if opts.Source == nil {
		return nil, errors.New("loader: source is required")
	}
	if opts.Store == nil {
		return nil, errors.New("loader: store is required")
	}

	keyword := strings.TrimSpace(opts.Keyword)
	if keyword == "" {
		keyword = DefaultCompliantKeyword
	}

	return &Loader{
		source:   opts.Source,
		store:    opts.Store,
		keyword:  keyword,
		maxBytes: opts.MaxBytes,
		observer: opts.Observer,
		gate:     NewLoadGate(),
		now:      time.Now,
	}, nil
}

// Wait blocks until the running load attempt, if any, finishes.
func (l *Loader) Wait(ctx context.Context) error {
	return l.gate.WaitForDrain(ctx)
}

// Keyword returns the compliance keyword in effect.
func (l *Loader) Keyword() string {
	return l.keyword
}

// Load runs one full load attempt and publishes the outcome to the store.
// It returns ErrLoadInProgress without side effects while another attempt
// is running.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if !l.gate.TryAcquire() {
		return nil, ErrLoadInProgress
	}
	defer l.gate.Release()

	start := l.now()
	logger := slog.With("source", l.source.Location(), "keyword", l.keyword)

	snap, err := l.load(ctx)
	elapsed := l.now().Sub(start)

	if l.observer != nil {
		l.observer.ObserveLoad(err, elapsed, snap)
	}

	if err != nil {
		l.store.Fail(err)
		logger.Error("dataset load failed",
			"error", err,
			"code", MapError(err).Code,
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, err
	}

	l.store.Publish(snap)
	logger.Info("dataset loaded",
		"snapshot", snap.ID.String(),
		"records", len(snap.Records),
		"skipped", snap.Skipped,
		"regions", len(snap.Aggregates),
		"duration_ms", elapsed.Milliseconds(),
	)
	return snap, nil
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	rc, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, l.source.Location(), err)
	}
	defer rc.Close()

	text, n, err := ReadText(rc, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, l.source.Location(), err)
	}
	slog.Debug("dataset fetched", "source", l.source.Location(), "bytes", n)

	records, skipped, err := ParseDataset(text, l.keyword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.source.Location(), err)
	}

	aggregates := Aggregate(records)

	return &Snapshot{
		ID:         uuid.New(),
		LoadedAt:   l.now().UTC(),
		Source:     l.source.Location(),
		Keyword:    l.keyword,
		Records:    records,
		Aggregates: aggregates,
		Summary:    Summarize(records, aggregates),
		Skipped:    skipped,
	}, nil
}

// ParseDataset converts the full dataset text into records.
//
// The first line is a header and is ignored. Whitespace-only lines are
// skipped without consuming a sequence number. Every other data line gets
// the next sequence number before validation, so dropping a row never
// renumbers the rows after it. Rows with an empty region or locality are
// dropped and counted in skipped.
func ParseDataset(text, keyword string) (records []Record, skipped int, err error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, 0, ErrEmptyDataset
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = DefaultCompliantKeyword
	}
	seq := 0

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		seq++

		fields := ParseLine(line)
		rec := Record{
			Region:    Field(fields, 0),
			Locality:  Field(fields, 1),
			Compliant: strings.EqualFold(Field(fields, 2), keyword),
			Sequence:  seq,
		}

		if rec.Region == "" || rec.Locality == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, skipped, ErrNoValidRecords
	}

	return records, skipped, nil
}
