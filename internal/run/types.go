package run

// Job is one file slated for conversion. Immutable once created; consumed by
// at most one invocation per run.
type Job struct {
	// Source is the absolute path of the input file.
	Source string
	// Rel is the path of the input file relative to the input root. The
	// output tree mirrors it.
	Rel string
}

// Config holds the parameters of one run. Immutable for the run's lifetime,
// supplied by fresh user input or restored verbatim from a checkpoint.
type Config struct {
	InputDir  string
	OutputDir string
	// Format is the target extension without the leading dot, e.g. "mp3".
	Format string
	// Quality is the already-mapped transcoder quality value, not the raw
	// 0-100 score.
	Quality int
	// Cores caps the number of invocations in flight.
	Cores int
}

// Failure records one file that the transcoder rejected.
type Failure struct {
	Path    string
	Message string
}

// Outcome describes how a run ended.
type Outcome int

const (
	// Completed means the job set was exhausted, or cancellation arrived
	// after the set had fully drained.
	Completed Outcome = iota
	// Cancelled means cancellation left unfinished jobs behind and a
	// checkpoint was written for them.
	Cancelled
)

// Report is the final result of a run.
type Report struct {
	Outcome   Outcome
	Total     int
	Done      int
	Remaining int
	Failures  []Failure
}

// Progress is emitted after every individual job resolves. Advisory only.
type Progress struct {
	Completed int
	Total     int
	// File is the relative path of the job that just resolved.
	File string
	// Err is the failure text when the job failed, empty otherwise.
	Err string
}
