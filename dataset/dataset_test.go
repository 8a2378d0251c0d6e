package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/salesforecast/timeseries"
)

const sampleCSV = `ORDERNUMBER,SALES,ORDERDATE,STATUS
10107,100,1/1/2023 0:00,Shipped
10121,50,1/1/2023 13:30,Shipped
10134,30,1/3/2023 0:00,Shipped
`

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func mustClean(t *testing.T, table *Table) *timeseries.Series {
	t.Helper()
	table, err := Validate(table, "ORDERDATE", "SALES")
	require.NoError(t, err)
	table, err = ParseDates(table, "ORDERDATE", nil)
	require.NoError(t, err)
	table, err = DropInvalidDates(table)
	require.NoError(t, err)
	series, err := AggregateDaily(table, "ORDERDATE", "SALES")
	require.NoError(t, err)
	return series
}

func TestLoad(t *testing.T) {
	ctx := testContext(t)

	t.Run("csv", func(t *testing.T) {
		path := writeFile(t, "sales.csv", []byte(sampleCSV))

		table, err := Load(ctx, path, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"ORDERNUMBER", "SALES", "ORDERDATE", "STATUS"}, table.Header)
		assert.Equal(t, 3, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Contains(t, notFound.Path, "nope.csv")
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load(ctx, t.TempDir(), DefaultOptions())

		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("latin-1", func(t *testing.T) {
		data := []byte("CUSTOMERNAME,SALES,ORDERDATE\nCaf\xe9 Lyon,10,2023-01-01\n")
		path := writeFile(t, "latin1.csv", data)

		table, err := Load(ctx, path, DefaultOptions())
		require.NoError(t, err)
		names, err := table.Column("CUSTOMERNAME")
		require.NoError(t, err)
		assert.Equal(t, "Café Lyon", names[0])
	})

	t.Run("workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sales.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ORDERDATE", "SALES"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2023-01-01", "100"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"2023-01-01", "50"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"2023-01-03", "30"}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		table, err := Load(ctx, path, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())

		series := mustClean(t, table)
		assert.Equal(t, []float64{150, 30}, series.Values)
	})
}

func TestLoadReader(t *testing.T) {
	t.Run("byte order mark and quoted header", func(t *testing.T) {
		input := "\ufeff\"ORDERDATE\",\"SALES\"\n2023-01-01,5\n"

		table, err := LoadReader(strings.NewReader(input), Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"ORDERDATE", "SALES"}, table.Header)
	})

	t.Run("byte order mark under latin-1", func(t *testing.T) {
		input := "\ufeffORDERDATE,SALES\n1/6/2003 0:00,10\n"

		table, err := LoadReader(strings.NewReader(input), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"ORDERDATE", "SALES"}, table.Header)

		table, err = Validate(table, "ORDERDATE", "SALES")
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("ragged rows and blank lines", func(t *testing.T) {
		input := "A,B,C\n1,2\n\n4,5,6,7\n"

		table, err := LoadReader(strings.NewReader(input), Options{})
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"1", "2", ""}, table.Rows[0])
		assert.Equal(t, []string{"4", "5", "6"}, table.Rows[1])
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		input := "ORDERDATE;SALES\n2023-01-01;1,5\n"

		table, err := LoadReader(strings.NewReader(input), Options{Delimiter: ';'})
		require.NoError(t, err)
		assert.Equal(t, []string{"2023-01-01", "1,5"}, table.Rows[0])
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := LoadReader(bytes.NewReader(nil), Options{})
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := LoadReader(strings.NewReader("A\n1\n"), Options{Encoding: "not-a-charset"})
		assert.Error(t, err)
	})

	t.Run("iana name", func(t *testing.T) {
		table, err := LoadReader(strings.NewReader("A\n\x80\n"), Options{Encoding: "windows-1252"})
		require.NoError(t, err)
		assert.Equal(t, "€", table.Rows[0][0])
	})
}

func TestValidate(t *testing.T) {
	table := NewTable([]string{"ORDERDATE", "QUANTITYORDERED"}, nil)

	t.Run("missing field is named", func(t *testing.T) {
		_, err := Validate(table, "ORDERDATE", "SALES")

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"SALES"}, schemaErr.Missing)
		assert.Contains(t, err.Error(), `"SALES"`)
	})

	t.Run("all missing fields are reported", func(t *testing.T) {
		_, err := Validate(table, "SALES", "PRICEEACH")

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"SALES", "PRICEEACH"}, schemaErr.Missing)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		got, err := Validate(table, "orderdate")
		require.NoError(t, err)
		assert.Same(t, table, got)
	})
}

func TestParseDates(t *testing.T) {
	table := NewTable(
		[]string{"ORDERDATE", "SALES"},
		[][]string{
			{"2/24/2003 0:00", "1"},
			{"2003-02-25", "2"},
			{"not a date", "3"},
			{"", "4"},
			{"2003-02-26T10:00:00Z", "5"},
		},
	)

	parsed, err := ParseDates(table, "ORDERDATE", nil)
	require.NoError(t, err)
	assert.Equal(t, "ORDERDATE", parsed.DateField())
	assert.Equal(t, 2, parsed.InvalidDates())

	d, ok := parsed.Date(0)
	assert.True(t, ok)
	assert.Equal(t, day("2003-02-24"), d)

	d, ok = parsed.Date(4)
	assert.True(t, ok)
	assert.Equal(t, day("2003-02-26"), d, "time of day is dropped")

	_, ok = parsed.Date(2)
	assert.False(t, ok)

	_, err = ParseDates(table, "SHIPDATE", nil)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)

	custom, err := ParseDates(NewTable([]string{"D"}, [][]string{{"24.02.2003"}}), "D", []string{"02.01.2006"})
	require.NoError(t, err)
	assert.Zero(t, custom.InvalidDates())
}

func TestDropInvalidDates(t *testing.T) {
	table := NewTable(
		[]string{"ORDERDATE", "SALES"},
		[][]string{
			{"2023-01-01", "1"},
			{"garbage", "2"},
			{"2023-01-02", "3"},
		},
	)
	parsed, err := ParseDates(table, "ORDERDATE", nil)
	require.NoError(t, err)

	kept, err := DropInvalidDates(parsed)
	require.NoError(t, err)
	require.Equal(t, 2, kept.Len())
	assert.Zero(t, kept.InvalidDates())

	inputDates := map[string]bool{"2023-01-01": true, "garbage": true, "2023-01-02": true}
	for i, row := range kept.Rows {
		assert.True(t, inputDates[row[0]], "output rows come from the input")
		_, ok := kept.Date(i)
		assert.True(t, ok)
	}

	t.Run("no valid dates", func(t *testing.T) {
		bad := NewTable([]string{"ORDERDATE"}, [][]string{{"x"}, {"y"}})
		parsed, err := ParseDates(bad, "ORDERDATE", nil)
		require.NoError(t, err)

		_, err = DropInvalidDates(parsed)
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("unparsed table", func(t *testing.T) {
		_, err := DropInvalidDates(table)
		assert.Error(t, err)
	})
}

func TestAggregateDaily(t *testing.T) {
	t.Run("sums per day", func(t *testing.T) {
		table, err := LoadReader(strings.NewReader(sampleCSV), Options{})
		require.NoError(t, err)

		series := mustClean(t, table)
		assert.Equal(t, []time.Time{day("2023-01-01"), day("2023-01-03")}, series.Timestamps)
		assert.Equal(t, []float64{150, 30}, series.Values)
		assert.Equal(t, "SALES", series.Name)

		filled, err := series.FillGaps(timeseries.FillZero)
		require.NoError(t, err)
		assert.Equal(t, []float64{150, 0, 30}, filled.Values)
		assert.NoError(t, filled.CheckDaily())
	})

	t.Run("sum preserving", func(t *testing.T) {
		rows := [][]string{
			{"2023-03-02", "10.25"},
			{"2023-03-01", "1,000.50"},
			{"2023-03-02", "5"},
			{"2023-03-05", "$4"},
			{"2023-03-01", "0.25"},
		}
		table := NewTable([]string{"ORDERDATE", "SALES"}, rows)

		series := mustClean(t, table)
		assert.InDelta(t, 1020.0, series.Sum(), 1e-9)
		assert.Equal(t, []float64{1000.75, 15.25, 4}, series.Values)
		for i := 1; i < series.Len(); i++ {
			assert.True(t, series.Timestamps[i].After(series.Timestamps[i-1]))
		}
	})

	t.Run("non-numeric values are skipped", func(t *testing.T) {
		rows := [][]string{
			{"2023-01-01", "12"},
			{"2023-01-01", "n/a"},
			{"2023-01-01", "twelve"},
			{"2023-01-02", ""},
			{"2023-01-02", "3"},
		}
		table := NewTable([]string{"ORDERDATE", "SALES"}, rows)

		series := mustClean(t, table)
		assert.Equal(t, []float64{12, 3}, series.Values)
		assert.Equal(t, 1, table.InvalidValues("SALES"))
	})

	t.Run("parses dates when needed", func(t *testing.T) {
		table := NewTable([]string{"day", "amount"}, [][]string{{"2023-01-02", "7"}, {"bad", "1"}})

		series, err := AggregateDaily(table, "DAY", "AMOUNT")
		require.NoError(t, err)
		assert.Equal(t, []float64{7}, series.Values)
	})

	t.Run("nothing numeric", func(t *testing.T) {
		table := NewTable([]string{"ORDERDATE", "SALES"}, [][]string{{"2023-01-01", "x"}})

		_, err := AggregateDaily(table, "ORDERDATE", "SALES")
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("missing value field", func(t *testing.T) {
		table := NewTable([]string{"ORDERDATE"}, [][]string{{"2023-01-01"}})

		_, err := AggregateDaily(table, "ORDERDATE", "SALES")
		var schemaErr *SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})
}
