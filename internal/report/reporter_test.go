package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sigem/internal/core"
)

func testSnapshot(t *testing.T) *core.Snapshot {
	t.Helper()
	records, skipped, err := core.ParseDataset(strings.Join([]string{
		"Departamento,Municipio,Estatus",
		"Atlántida,La Ceiba,INTEGRADO",
		"Atlántida,Tela,PENDIENTE",
		"Yoro,El Progreso,PENDIENTE",
		",Sin Depto,INTEGRADO",
	}, "\n"), "INTEGRADO")
	require.NoError(t, err)

	aggs := core.Aggregate(records)
	return &core.Snapshot{
		ID:         uuid.MustParse("6f1c1e0a-3b7a-4b0e-9d55-0b3c6f4f5a11"),
		LoadedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:     "data/municipalidades.csv",
		Keyword:    "INTEGRADO",
		Records:    records,
		Aggregates: aggs,
		Summary:    core.Summarize(records, aggs),
		Skipped:    skipped,
	}
}

func TestRows_IncludesEveryDepartment(t *testing.T) {
	rows := Rows(testSnapshot(t))
	require.Len(t, rows, core.RegionCount())

	assert.Equal(t, "Atlántida", rows[0].Region)
	assert.Equal(t, core.StatusCompliant, rows[0].Status)

	byName := make(map[string]core.RegionAggregate)
	for _, r := range rows {
		byName[r.Region] = r
	}
	assert.Equal(t, core.StatusNonCompliant, byName["Yoro"].Status)
	assert.Equal(t, core.StatusNoData, byName["Olancho"].Status)
	assert.Zero(t, byName["Olancho"].Total)
}

func TestRows_KeepsUnknownRegions(t *testing.T) {
	snap := testSnapshot(t)
	snap.Aggregates["Zona Libre"] = core.RegionAggregate{Region: "Zona Libre", Total: 1, NonCompliantCount: 1, Status: core.StatusNonCompliant}

	rows := Rows(snap)
	assert.Len(t, rows, core.RegionCount()+1)
	assert.Equal(t, "Zona Libre", rows[len(rows)-1].Region)
}

func TestReporter_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Handle(testSnapshot(t)))

	out := buf.String()
	assert.Contains(t, out, "Municipalidades Integradas al SIGEM")
	assert.Contains(t, out, "Fuente: data/municipalidades.csv (2024-03-01 12:00:00 UTC)")
	assert.Contains(t, out, "Filas omitidas:")
	assert.Regexp(t, `Total de municipios:\s+3`, out)
	assert.Regexp(t, `Atlántida\s+1\s+1\s+2\s+Solvente`, out)
	assert.Regexp(t, `Yoro\s+0\s+1\s+1\s+Insolvente`, out)
	assert.Regexp(t, `Olancho\s+0\s+0\s+0\s+Sin datos`, out)
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Handle(testSnapshot(t)))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "6f1c1e0a-3b7a-4b0e-9d55-0b3c6f4f5a11", got.ID)
	assert.Equal(t, 3, got.Summary.Total)
	assert.Equal(t, 1, got.Skipped)
	assert.Len(t, got.Regions, core.RegionCount())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
