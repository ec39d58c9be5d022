// Package pipeline orchestrates a batch run: discover scans, normalize and
// parse their names, classify channels, index and group records, plan the
// RGB cross-product, and execute merge jobs through a compositor.
//
// Every per-file and per-job problem is recovered locally and aggregated
// into the run's [Report]; nothing short of an unreadable input directory
// aborts a batch. The run as a whole fails only when the report holds at
// least one error-grade event (a parse failure or a failed merge).
package pipeline
