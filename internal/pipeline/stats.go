package pipeline

// RunStats tracks aggregate counters across one batch run.
type RunStats struct {
	Found         int // Scan files discovered.
	Indexed       int // Records retained after parsing and clobbering.
	ParseFailures int
	Collisions    int
	Excluded      int // Brightfield + unknown records dropped.
	Incomplete    int // Image ids skipped for a missing channel.
	Planned       int // Merge jobs enumerated.
	Merged        int
	Skipped       int // Existing outputs left in place, or jobs cancelled.
	Failed        int

	OutputBytes int64 // Total size of merged outputs written.
}
