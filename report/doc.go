// Package report formats forecasts for people: a console preview of the
// last days and an .xlsx export.
package report
