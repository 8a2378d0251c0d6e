package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/salesforecast/dataset"
	"github.com/sartorproj/salesforecast/forecast"
	"github.com/sartorproj/salesforecast/pipeline"
)

// setupWorkdir runs the test in an empty directory with no config file in
// reach and returns that directory.
func setupWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func writeSales(t *testing.T, dir string, days int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("ORDERNUMBER,SALES,ORDERDATE\n")
	start := time.Date(2004, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		sales := 2000 + 10*float64(i)
		if d.Weekday() == time.Saturday {
			sales += 700
		}
		fmt.Fprintf(&b, "%d,%.2f,%s\n", 10000+i, sales, d.Format("1/2/2006 15:04"))
	}
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), append([]string{"--color=never"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunForecast(t *testing.T) {
	dir := setupWorkdir(t)
	input := writeSales(t, dir, 45)
	outDir := filepath.Join(dir, "out")

	code, stdout, stderr := run(input, "--horizon", "7", "--out-dir", outDir, "--fill", "interpolate")
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "yhat_upper")
	assert.Contains(t, stdout, "2004-04-21", "last forecast day")
	assert.Contains(t, stdout, "[OK] forecast of 7 days after 2004-04-14")
	assert.Contains(t, stdout, "projected sales over the horizon: ")
	assert.Contains(t, stdout, "See also: salesforecast inspect [path]")
	assert.FileExists(t, filepath.Join(outDir, "forecast.png"))
	assert.FileExists(t, filepath.Join(outDir, "components.png"))
}

func TestRunForecastConfigFile(t *testing.T) {
	dir := setupWorkdir(t)
	input := writeSales(t, dir, 30)
	body := fmt.Sprintf("input:\n  path: %s\nforecast:\n  horizon_days: 3\n  preview_rows: 2\noutput:\n  dir: results\n  workbook: forecast.xlsx\n", input)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".salesforecast.yaml"), []byte(body), 0o644))

	code, stdout, stderr := run()
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "forecast of 3 days")
	assert.FileExists(t, filepath.Join(dir, "results", "forecast.xlsx"))
}

func TestInspect(t *testing.T) {
	dir := setupWorkdir(t)
	input := writeSales(t, dir, 28)
	export := filepath.Join(dir, "series.csv")

	code, stdout, stderr := run("inspect", input, "--export", export)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "Daily series")
	assert.Contains(t, stdout, "rows read")
	assert.Contains(t, stdout, "2004-03-28")
	assert.Contains(t, stdout, "weekly strength")
	assert.Contains(t, stdout, "daily min")
	assert.Contains(t, stdout, "2000.00", "first day has the lowest sales")
	assert.Contains(t, stdout, "daily max")
	assert.Contains(t, stdout, "[OK] exported 28 days")

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 29)
	assert.Equal(t, "ds,y", lines[0])
	assert.Equal(t, "2004-03-01,2000", lines[1])
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	code, stdout, _ := run("version", "--short")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "1.2.3\n", stdout)

	code, stdout, _ = run("version")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "salesforecast version 1.2.3")
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) []string
		code  int
		msg   string
	}{
		{
			name:  "unknown flag",
			setup: func(*testing.T, string) []string { return []string{"--bogus"} },
			code:  ExitUsage,
			msg:   "invalid usage",
		},
		{
			name:  "too many args",
			setup: func(*testing.T, string) []string { return []string{"a.csv", "b.csv"} },
			code:  ExitUsage,
			msg:   "invalid usage",
		},
		{
			name:  "invalid fill",
			setup: func(*testing.T, string) []string { return []string{"--fill", "mean"} },
			code:  ExitUsage,
			msg:   "clean.fill",
		},
		{
			name:  "missing input",
			setup: func(_ *testing.T, dir string) []string { return []string{filepath.Join(dir, "absent.csv")} },
			code:  ExitInput,
			msg:   "stage load failed",
		},
		{
			name: "missing column",
			setup: func(t *testing.T, dir string) []string {
				path := filepath.Join(dir, "orders.csv")
				require.NoError(t, os.WriteFile(path, []byte("ORDERDATE,PRICE\n1/1/2004 0:00,5\n"), 0o644))
				return []string{path}
			},
			code: ExitInput,
			msg:  "available columns: ORDERDATE, PRICE",
		},
		{
			name: "no parseable dates",
			setup: func(t *testing.T, dir string) []string {
				path := filepath.Join(dir, "orders.csv")
				require.NoError(t, os.WriteFile(path, []byte("ORDERDATE,SALES\nyesterday,5\n"), 0o644))
				return []string{path}
			},
			code: ExitData,
			msg:  "stage parse-dates failed",
		},
		{
			name: "single day",
			setup: func(t *testing.T, dir string) []string {
				path := filepath.Join(dir, "orders.csv")
				require.NoError(t, os.WriteFile(path, []byte("ORDERDATE,SALES\n1/1/2004 0:00,5\n"), 0o644))
				return []string{path}
			},
			code: ExitFit,
			msg:  "stage fit failed",
		},
		{
			name: "output blocked",
			setup: func(t *testing.T, dir string) []string {
				blocker := filepath.Join(dir, "blocker")
				require.NoError(t, os.WriteFile(blocker, nil, 0o644))
				return []string{writeSales(t, dir, 20), "--horizon", "2", "--out-dir", filepath.Join(blocker, "out")}
			},
			code: ExitOutput,
			msg:  "stage write failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupWorkdir(t)

			code, _, stderr := run(tt.setup(t, dir)...)
			assert.Equal(t, tt.code, code, stderr)
			assert.Contains(t, stderr, "[ERROR]")
			assert.Contains(t, stderr, tt.msg)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"plain", errors.New("boom"), ExitGeneral},
		{"usage", &usageError{err: errors.New("bad flag")}, ExitUsage},
		{"config", &configError{err: errors.New("bad key")}, ExitUsage},
		{"not found", &pipeline.StageError{Stage: pipeline.StageLoad, Err: &dataset.NotFoundError{Path: "x", Err: os.ErrNotExist}}, ExitInput},
		{"decode", &pipeline.StageError{Stage: pipeline.StageLoad, Err: errors.New("bad quote")}, ExitInput},
		{"empty", &pipeline.StageError{Stage: pipeline.StageAggregate, Err: dataset.ErrEmptyDataset}, ExitData},
		{"fill", &pipeline.StageError{Stage: pipeline.StageFillGaps, Err: errors.New("not daily")}, ExitData},
		{"fit", &pipeline.StageError{Stage: pipeline.StageFit, Err: &forecast.FitError{Reason: "flat"}}, ExitFit},
		{"predict", &pipeline.StageError{Stage: pipeline.StagePredict, Err: errors.New("horizon")}, ExitFit},
		{"render", &pipeline.StageError{Stage: pipeline.StageRender, Err: errors.New("png")}, ExitOutput},
		{"bare empty", dataset.ErrEmptyDataset, ExitData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.code, got.ExitCode)
			assert.NotEmpty(t, got.Summary)
		})
	}

	staged := Classify(&pipeline.StageError{Stage: pipeline.StageFit, Err: &forecast.FitError{Reason: "flat"}})
	assert.Equal(t, "stage fit failed", staged.Summary)
	assert.Contains(t, staged.Detail, "flat")
	assert.NotEmpty(t, staged.Suggestion)
}

func TestPrinter(t *testing.T) {
	var out, errw bytes.Buffer
	p := NewPrinter(&out, &errw, false)

	p.Success("done %d", 3)
	p.Info("note")
	p.Warning("careful")
	p.Header("Title")
	p.FormatError(&CLIError{Summary: "broke", Detail: "cause", Suggestion: "fix it", ExitCode: ExitGeneral})
	p.PrintHints("inspect")
	p.PrintHints("unknown")

	assert.Contains(t, out.String(), "[OK] done 3\n")
	assert.Contains(t, out.String(), "note\n")
	assert.Contains(t, out.String(), "Title\n-----\n")
	assert.Contains(t, out.String(), "See also: salesforecast [path], salesforecast inspect --export series.csv")
	assert.Equal(t, "[WARN] careful\n[ERROR] broke\n  Cause: cause\n  Suggestion: fix it\n", errw.String())
}

func TestParseColorMode(t *testing.T) {
	mode, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.False(t, ResolveColors(mode, true))

	mode, err = ParseColorMode("always")
	require.NoError(t, err)
	assert.True(t, ResolveColors(mode, false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(ColorAuto, true))

	_, err = ParseColorMode("rainbow")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
