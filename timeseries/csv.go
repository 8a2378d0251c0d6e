package timeseries

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strconv"
	"time"
)

// WriteCSV writes the series as "ds,y" rows with ISO dates.
// NaN values are written as empty cells.
func WriteCSV(w io.Writer, series *Series) error {
	if len(series.Timestamps) != len(series.Values) {
		return errors.New("series timestamps and values differ in length")
	}

	writer := bufio.NewWriter(w)

	if _, err := writer.WriteString("ds,y\n"); err != nil {
		return err
	}

	for i, v := range series.Values {
		writer.WriteString(series.Timestamps[i].Format(time.DateOnly))
		writer.WriteString(",")
		if !math.IsNaN(v) {
			writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		writer.WriteString("\n")
	}

	return writer.Flush()
}
