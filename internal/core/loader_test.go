package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	body string
	err  error
}

func (s stubSource) Fetch(context.Context) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func (s stubSource) Location() string { return "stub://dataset" }

type recordingObserver struct {
	calls int
	err   error
	snap  *Snapshot
}

func (o *recordingObserver) ObserveLoad(err error, _ time.Duration, snap *Snapshot) {
	o.calls++
	o.err = err
	o.snap = snap
}

func newTestLoader(t *testing.T, src Source, keyword string) (*Loader, *Store, *recordingObserver) {
	t.Helper()
	store := NewStore()
	obs := &recordingObserver{}
	loader, err := NewLoader(LoaderOptions{
		Source:   src,
		Store:    store,
		Keyword:  keyword,
		Observer: obs,
	})
	require.NoError(t, err)
	return loader, store, obs
}

func TestParseDataset_KeepsSequenceAfterDrop(t *testing.T) {
	text := "departamento,municipio,estatus\n" +
		"Cortés,San Pedro Sula,INTEGRADO\n" +
		"Cortés,,INTEGRADO\n" +
		"Yoro,El Progreso,NO INTEGRADO\n"

	records, skipped, err := ParseDataset(text, "INTEGRADO")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, skipped)
	assert.Equal(t, Record{Region: "Cortés", Locality: "San Pedro Sula", Compliant: true, Sequence: 1}, records[0])
	assert.Equal(t, Record{Region: "Yoro", Locality: "El Progreso", Compliant: false, Sequence: 3}, records[1])
}

func TestParseDataset_KeywordIsCaseInsensitive(t *testing.T) {
	text := "d,m,s\nValle,Nacaome,solvente\nValle,Amapala,Solvente\nValle,Goascorán,INSOLVENTE"

	records, _, err := ParseDataset(text, "SOLVENTE")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.True(t, records[0].Compliant)
	assert.True(t, records[1].Compliant)
	assert.False(t, records[2].Compliant)
}

func TestParseDataset_CRLFAndBlankLines(t *testing.T) {
	text := "d,m,s\r\nOlancho,Juticalpa,INTEGRADO\r\n\r\n   \r\nOlancho,Catacamas,INTEGRADO\r\n\r\n"

	records, skipped, err := ParseDataset(text, "integrado")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Zero(t, skipped)
	assert.Equal(t, "Juticalpa", records[0].Locality)
	assert.Equal(t, 1, records[0].Sequence)
	assert.Equal(t, "Catacamas", records[1].Locality)
	assert.Equal(t, 2, records[1].Sequence)
	assert.True(t, records[1].Compliant)
}

func TestParseDataset_MissingStatusColumn(t *testing.T) {
	records, _, err := ParseDataset("d,m,s\nLa Paz,Marcala", "INTEGRADO")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Compliant)
}

func TestParseDataset_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty text", text: "", want: ErrEmptyDataset},
		{name: "header only", text: "departamento,municipio,estatus", want: ErrEmptyDataset},
		{name: "header and trailing blank lines", text: "departamento,municipio,estatus\n\n  \n", want: ErrEmptyDataset},
		{name: "every row invalid", text: "d,m,s\n,Tela,INTEGRADO\nAtlántida,,INTEGRADO", want: ErrNoValidRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataset(tt.text, "INTEGRADO")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoader_LoadPublishesSnapshot(t *testing.T) {
	body := "\xEF\xBB\xBFdepartamento,municipio,estatus\n" +
		"Cortés,San Pedro Sula,INTEGRADO\n" +
		"Cortés,Choloma,PENDIENTE\n" +
		"Valle,Nacaome,PENDIENTE\n"

	loader, store, obs := newTestLoader(t, stubSource{body: body}, "integrado")
	assert.Equal(t, StateLoading, store.State())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateReady, store.State())
	published, err := store.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, published)

	assert.Equal(t, "stub://dataset", snap.Source)
	assert.Equal(t, "integrado", snap.Keyword)
	assert.Len(t, snap.Records, 3)
	assert.Equal(t, "Cortés", snap.Records[0].Region, "BOM must not leak into the header or first row")
	assert.Equal(t, Summary{Total: 3, Compliant: 1, NonCompliant: 2, Regions: 2}, snap.Summary)
	assert.Equal(t, StatusCompliant, snap.Aggregates["Cortés"].Status)
	assert.Equal(t, StatusNonCompliant, snap.Aggregates["Valle"].Status)
	assert.NotEmpty(t, snap.ID.String())

	assert.Equal(t, 1, obs.calls)
	assert.NoError(t, obs.err)
	assert.Same(t, snap, obs.snap)
}

func TestLoader_FetchFailureIsDataUnavailable(t *testing.T) {
	cause := errors.New("status 404")
	loader, store, obs := newTestLoader(t, stubSource{err: cause}, "")

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateFailed, store.State())
	assert.Equal(t, 1, obs.calls)
	assert.Nil(t, obs.snap)

	_, err = store.Snapshot()
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoader_FailureReplacesPreviousSnapshot(t *testing.T) {
	store := NewStore()
	store.Publish(&Snapshot{Records: []Record{{Region: "a", Locality: "b", Sequence: 1}}})

	loader, err := NewLoader(LoaderOptions{
		Source: stubSource{body: "only,a,header"},
		Store:  store,
	})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyDataset)
	assert.Equal(t, StateFailed, store.State())
}

func TestLoader_DefaultKeyword(t *testing.T) {
	loader, _, _ := newTestLoader(t, stubSource{}, "   ")
	assert.Equal(t, DefaultCompliantKeyword, loader.Keyword())
}

func TestNewLoader_Validation(t *testing.T) {
	_, err := NewLoader(LoaderOptions{Store: NewStore()})
	assert.Error(t, err)

	_, err = NewLoader(LoaderOptions{Source: stubSource{}})
	assert.Error(t, err)
}

// blockingSource holds Fetch open until release is closed.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	body    string
}

func (s blockingSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	close(s.started)
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func (s blockingSource) Location() string { return "blocking://dataset" }

func TestLoader_OverlappingLoadIsRejected(t *testing.T) {
	src := blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		body:    "d,m,e\nYoro,Yoro,INTEGRADO\n",
	}
	loader, store, obs := newTestLoader(t, src, "")

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background())
		done <- err
	}()
	<-src.started

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrLoadInProgress)
	assert.Equal(t, StateLoading, store.State(), "rejected attempt must not touch the store")

	close(src.release)
	require.NoError(t, <-done)
	require.NoError(t, loader.Wait(context.Background()))

	assert.Equal(t, StateReady, store.State())
	assert.Equal(t, 1, obs.calls)
}
