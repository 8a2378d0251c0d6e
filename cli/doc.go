// Package cli contains the salesforecast commands: the forecast run on the
// root command, inspect and version.
//
// Errors from any command are classified into a CLIError and printed with
// a cause and a suggestion. The process exit code tells the classes apart:
//
//	0  success
//	1  unexpected failure
//	2  usage or configuration error
//	3  input file missing, unreadable or lacking required columns
//	4  no usable rows after cleaning
//	5  the model could not be fitted
//	6  output files could not be rendered or written
package cli
