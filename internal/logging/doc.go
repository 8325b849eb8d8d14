// Package logging builds the shared logging sink for the manifest client
// and the download workers.
//
// All components log through one *logrus.Logger, which serializes entries
// internally so records from concurrent workers reach a single destination
// (stderr or a log file) in submission order.
//
// Verbosity maps to levels the way the CLI flags do:
//
//	0  → errors only
//	1  → info (-v)
//	2+ → debug (-vv)
package logging
