package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbinmd/internal/models"
	"symbinmd/pkg/config"
	"symbinmd/pkg/eventstore"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitConfigAndPlan(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "symbinmd.yaml")

	out, err := execute(t, "init-config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	out, err = execute(t, "plan", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Space group: 198 (P 21 3)")
	assert.Contains(t, out, "  0  a,unit,1,1,0,0 | b,unit,0,0,1,0")
}

func TestPlanExplicitOperations(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "ops.yaml")
	cfg := config.DefaultConfig()
	cfg.Symmetrization.Mode = "Symmetry Operations"
	cfg.Symmetrization.NumOperations = 2
	cfg.Symmetrization.Operations = []string{"x,-y,z", "-x,-y,z"}
	require.NoError(t, config.SaveConfig(cfg, cfgPath))

	out, err := execute(t, "plan", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Operations: x,-y,z  -x,-y,z")
	assert.Contains(t, out, "  2  a,unit,-1,-1,0,0")
}

func TestOpsListsCatalog(t *testing.T) {
	out, err := execute(t, "ops")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 64)
	assert.Contains(t, lines[0], "x,y,z")
}

func TestImportRunAndShow(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "events.csv")
	eventsDB := filepath.Join(dir, "events.db")
	outDB := filepath.Join(dir, "out.db")
	plotDir := filepath.Join(dir, "plots")

	csv := "# h,k,l,E,signal,errorSq\n1,0,0,7,2,2\n0,1,0,8,1,1\n-1,-1,0,9,1,1\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0644))

	out, err := execute(t, "import", csvPath, "--events", eventsDB)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 events")

	out, err = execute(t, "run",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--events", eventsDB,
		"--output", outDB,
		"--plots", plotDir,
		"--cores", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Space group: 198 (P 21 3)")
	assert.Contains(t, out, "Shape: [50 50 1 1]")

	files, err := filepath.Glob(filepath.Join(plotDir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	store, err := eventstore.Open(outDB)
	require.NoError(t, err)
	ids, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	hist, meta, err := store.LoadHistogram(ids[0])
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.Equal(t, "Space Group", meta.Mode)
	assert.Greater(t, hist.Summary().TotalEvents, 0.0)

	out, err = execute(t, "show", "--db", outDB, ids[0].String())
	require.NoError(t, err)
	assert.Contains(t, out, ids[0].String())
	assert.Contains(t, out, "Space Group")
}

func TestRunRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	cfg := config.DefaultConfig()
	cfg.Symmetrization.SpaceGroup = 231
	require.NoError(t, config.SaveConfig(cfg, cfgPath))

	_, err := execute(t, "run", "--config", cfgPath, "--events", filepath.Join(dir, "events.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestRunRequiresEvents(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"events"`)
}

func TestPlanSkipsAbsentSlots(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sparse.yaml")
	cfg := config.DefaultConfig()
	cfg.Symmetrization.Mode = "Symmetry Operations"
	cfg.Binning.BasisVectors = []string{"a,unit,1,0,0,0", "", "", "E,unit,0,0,0,1"}
	require.NoError(t, config.SaveConfig(cfg, cfgPath))

	out, err := execute(t, "plan", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "  0  a,unit,1,0,0,0 | E,unit,0,0,0,1\n")
}

func TestReadEventsCSV(t *testing.T) {
	table, err := readEventsCSV(strings.NewReader("1, 2, 3, 4, 5, 6\n"))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, [4]float64{1, 2, 3, 4}, table.Events[0].Coords)
	assert.Equal(t, 6.0, table.Events[0].ErrorSq)

	_, err = readEventsCSV(strings.NewReader("1,2,3,4,5\n"))
	assert.ErrorIs(t, err, models.ErrFormat)

	_, err = readEventsCSV(strings.NewReader("1,2,3,4,five,6\n"))
	assert.ErrorIs(t, err, models.ErrFormat)
}
