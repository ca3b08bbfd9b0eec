package dispatcher

import (
	"time"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/provider"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// JobID identifies a submitted job. It is a UUID string (spec.md §3);
// callers treat it as opaque.
type JobID string

// Job is the dispatcher's view of one submission across its lifecycle
// (spec.md §3/§4.5): Pending -> Queued -> Running -> {Completed, Failed,
// Cancelled}. Non-terminal transitions are monotonic; terminal states
// persist FinishedAt/Result/Err permanently.
type Job struct {
	ID          JobID
	Seq         uint64 // monotonically increasing submission order
	Circuit     *circuit.Circuit
	Device      string
	ProviderTag string
	Shots       int
	State       provider.JobState
	SubmittedAt time.Time
	FinishedAt  time.Time
	Result      *simulator.JobResult
	Err         error

	cancelRequested  bool
	retriesRemaining int
}

// Snapshot is an immutable copy of a Job's externally visible fields,
// returned by Poll/AwaitResult so callers never see a pointer into the
// dispatcher's locked table.
type Snapshot struct {
	ID              JobID
	Device          string
	Shots           int
	State           provider.JobState
	SubmittedAt     time.Time
	FinishedAt      time.Time
	Result          *simulator.JobResult
	Err             error
	ExecutionTimeMs uint64
}

func (j *Job) snapshot() Snapshot {
	s := Snapshot{
		ID:          j.ID,
		Device:      j.Device,
		Shots:       j.Shots,
		State:       j.State,
		SubmittedAt: j.SubmittedAt,
		FinishedAt:  j.FinishedAt,
		Result:      j.Result,
		Err:         j.Err,
	}
	if !j.FinishedAt.IsZero() {
		s.ExecutionTimeMs = uint64(j.FinishedAt.Sub(j.SubmittedAt).Milliseconds())
	}
	return s
}

// BenchmarkRun is one device's result from Dispatcher.Benchmark (spec.md
// §4.5/§8's end-to-end scenario 6): JSON-serialisable so the HTTP facade
// can return it unchanged.
type BenchmarkRun struct {
	Device            string `json:"device"`
	CircuitFingerprint string `json:"circuit_fingerprint"`
	ExecutionTimeMs   uint64 `json:"execution_time_ms"`
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
}
