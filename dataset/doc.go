// Package dataset loads tabular sales transactions and cleans them into a
// daily series.
//
// The cleaning steps run in order and each returns a new table:
//
//	table, err := dataset.Load(ctx, "sales_data_sample.csv", dataset.DefaultOptions())
//	table, err = dataset.Validate(table, "ORDERDATE", "SALES")
//	table, err = dataset.ParseDates(table, "ORDERDATE", nil)
//	table, err = dataset.DropInvalidDates(table)
//	daily, err := dataset.AggregateDaily(table, "ORDERDATE", "SALES")
//
// Delimited text is decoded from any IANA charset (Latin-1 by default);
// files ending in .xlsx are read from their first worksheet. Field names
// match exactly, falling back to a case-insensitive match.
//
// Errors are typed: *NotFoundError for unreadable input, *SchemaError for
// absent fields and ErrEmptyDataset when no rows survive cleaning.
package dataset
