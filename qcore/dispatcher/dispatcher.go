// Package dispatcher implements the Backend Dispatcher of spec.md §4.5:
// the single entry point every client uses to register providers, pick a
// device, submit circuits, and track jobs across their lifecycle. It
// replaces the original source's global singleton `quantum_backend`
// (spec.md REDESIGN FLAGS) with a constructed value a caller owns and
// passes around explicitly.
//
// The concurrency shape follows spec.md §5: a single mutex guards the job
// table; every submit spawns one goroutine that calls the owning
// provider, polls it at exponential backoff until a terminal state, and
// merges the result back under the lock. The lock is never held across a
// provider call. A sync.Cond broadcasts on every job-table mutation so
// AwaitResult can wake without polling its own timer loop.
package dispatcher

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/firebitsbr/houdinis/internal/logger"
	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/provider"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

func newJobID() string { return uuid.NewString() }

// MaxInflightJobs bounds the number of non-terminal jobs the dispatcher
// will track at once (spec.md §5); further submits fail ResourceExhausted.
const MaxInflightJobs = 1024

// MaxProviderRetries bounds retries of a transient provider error
// (ProviderUnavailable(retryable) / ProviderThrottled) before a job is
// failed with the last observed error (spec.md §7).
const MaxProviderRetries = 5

const (
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Dispatcher owns the provider registry, device namespace, and job table
// (spec.md §4.5). The zero value is not valid; construct via New.
type Dispatcher struct {
	log   *logger.Logger
	clock provider.Clock

	mu      sync.Mutex
	cond    *sync.Cond
	closed  bool
	order   []string
	regs    map[string]provider.Provider
	jobs    map[JobID]*Job
	seq     uint64
	current string // device bound by SelectDevice, used when Submit's device arg is empty
}

// New constructs an empty Dispatcher. log receives structured events for
// every registration, submission, and transition the way the teacher's
// injected *logger.Logger does for its Simulator; clock is the
// injectable monotonic time source spec.md §6 requires for timing and
// backoff (pass provider.SystemClock{} in production).
func New(log *logger.Logger, clock provider.Clock) *Dispatcher {
	if clock == nil {
		clock = provider.SystemClock{}
	}
	d := &Dispatcher{
		log:   log,
		clock: clock,
		regs:  make(map[string]provider.Provider),
		jobs:  make(map[JobID]*Job),
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// RegisterProvider initializes p with creds and adds it to the active
// set under tag p.Tag() (spec.md §4.5). Re-registering the same tag
// re-initializes it in place (Initialize is idempotent per spec.md
// §4.4); failure leaves the previous registration, if any, untouched.
func (d *Dispatcher) RegisterProvider(ctx context.Context, p provider.Provider, creds provider.Credentials) error {
	if err := p.Initialize(ctx, creds); err != nil {
		if d.log != nil {
			d.log.Warn().Str("provider", p.Tag()).Err(err).Msg("provider registration failed")
		}
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	tag := p.Tag()
	if _, exists := d.regs[tag]; !exists {
		d.order = append(d.order, tag)
	}
	d.regs[tag] = p
	if d.log != nil {
		d.log.Info().Str("provider", tag).Msg("provider registered")
	}
	return nil
}

// ListAllDevices returns the union of devices across every active
// provider, a point-in-time snapshot stable within this one call,
// ordered by (provider_tag, name) (spec.md §4.5).
func (d *Dispatcher) ListAllDevices(ctx context.Context) ([]provider.DeviceInfo, error) {
	providers, order := d.snapshotProviders()

	var all []provider.DeviceInfo
	for _, tag := range order {
		devs, err := providers[tag].ListDevices(ctx)
		if err != nil {
			return nil, fmt.Errorf("dispatcher: list devices for %s: %w", tag, err)
		}
		all = append(all, devs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].ProviderTag != all[j].ProviderTag {
			return all[i].ProviderTag < all[j].ProviderTag
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}

// SelectDevice binds name as the "current device" used by Submit calls
// that omit an explicit device (spec.md §4.5). It fails DeviceNotFound
// if no active provider currently advertises that device name.
func (d *Dispatcher) SelectDevice(ctx context.Context, name string) error {
	devices, err := d.ListAllDevices(ctx)
	if err != nil {
		return err
	}
	for _, dev := range devices {
		if dev.Name == name {
			d.mu.Lock()
			d.current = name
			d.mu.Unlock()
			return nil
		}
	}
	return provider.ErrDeviceNotFound{Name: name}
}

// AutoSelect deterministically picks a device for circuit c under policy
// (spec.md §4.5's ranking rules, §8's "NoSuitableDevice if none match").
// Only devices whose capability set covers every gate c uses are ranked.
func (d *Dispatcher) AutoSelect(ctx context.Context, c *circuit.Circuit, policy Policy) (provider.DeviceInfo, error) {
	devices, err := d.ListAllDevices(ctx)
	if err != nil {
		return provider.DeviceInfo{}, err
	}
	var capable []provider.DeviceInfo
	for _, dev := range devices {
		if c.ValidateAgainst(dev.Capabilities) == nil {
			capable = append(capable, dev)
		}
	}
	ranked := rankByPolicy(capable, c.Width(), policy)
	if len(ranked) == 0 {
		return provider.DeviceInfo{}, ErrNoSuitableDevice{Policy: policy}
	}
	return ranked[0].device, nil
}

// Submit hands circuit c to the device (explicit name, or the
// previously bound "current device" if device == "") and returns a
// JobID immediately after transitioning Pending -> Queued; it never
// blocks on remote completion (spec.md §4.5).
func (d *Dispatcher) Submit(ctx context.Context, c *circuit.Circuit, device string, shots int) (JobID, error) {
	if device == "" {
		d.mu.Lock()
		device = d.current
		d.mu.Unlock()
		if device == "" {
			return "", provider.ErrDeviceNotFound{Name: ""}
		}
	}

	devices, err := d.ListAllDevices(ctx)
	if err != nil {
		return "", err
	}
	var info provider.DeviceInfo
	found := false
	for _, dev := range devices {
		if dev.Name == device {
			info, found = dev, true
			break
		}
	}
	if !found {
		return "", provider.ErrDeviceNotFound{Name: device}
	}
	if err := c.ValidateAgainst(info.Capabilities); err != nil {
		return "", err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return "", fmt.Errorf("dispatcher: closed")
	}
	if d.inflightLocked() >= MaxInflightJobs {
		d.mu.Unlock()
		return "", ErrResourceExhausted{}
	}
	d.seq++
	job := &Job{
		ID:               JobID(newJobID()),
		Seq:              d.seq,
		Circuit:          c,
		Device:           device,
		ProviderTag:      info.ProviderTag,
		Shots:            shots,
		State:            provider.Queued,
		SubmittedAt:      d.clock.Now(),
		retriesRemaining: MaxProviderRetries,
	}
	d.jobs[job.ID] = job
	prov := d.regs[info.ProviderTag]
	d.cond.Broadcast()
	d.mu.Unlock()

	if d.log != nil {
		d.log.Info().Str("job", string(job.ID)).Str("device", device).Int("shots", shots).Msg("job submitted")
	}

	go d.run(ctx, job, prov, info)

	return job.ID, nil
}

// Poll returns job's current state and, if terminal, its result. Poll is
// pure observation; it never mutates the job (spec.md §4.5/§4.4).
func (d *Dispatcher) Poll(jobID JobID) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	job, ok := d.jobs[jobID]
	if !ok {
		return Snapshot{}, ErrJobNotFound{JobID: string(jobID)}
	}
	return job.snapshot(), nil
}

// AwaitResult blocks up to timeout for job to reach a terminal state,
// returning its snapshot together with the job's own error (non-nil when
// the job Failed), or ErrTimeout; it never mutates job state on timeout
// (spec.md §4.5/§5's cancellation-safe wait).
func (d *Dispatcher) AwaitResult(ctx context.Context, jobID JobID, timeout time.Duration) (Snapshot, error) {
	d.mu.Lock()
	job, ok := d.jobs[jobID]
	if !ok {
		d.mu.Unlock()
		return Snapshot{}, ErrJobNotFound{JobID: string(jobID)}
	}
	if job.State.IsTerminal() || timeout <= 0 {
		snap := job.snapshot()
		d.mu.Unlock()
		return snap, snap.Err
	}
	d.mu.Unlock()

	// sync.Cond has no wait-with-deadline primitive, so a helper
	// goroutine broadcasts once the real-time deadline passes; note
	// this deadline is wall-clock, not the injectable Clock, since it
	// bounds how long the *caller* is willing to block rather than any
	// timestamp recorded on the Job itself (those use d.clock).
	timedOut := make(chan struct{})
	timer := time.AfterFunc(timeout, func() {
		close(timedOut)
		d.mu.Lock()
		d.cond.Broadcast()
		d.mu.Unlock()
	})
	defer timer.Stop()

	done := make(chan struct{})
	go func() {
		d.mu.Lock()
		for !job.State.IsTerminal() {
			select {
			case <-timedOut:
				d.mu.Unlock()
				return
			default:
			}
			d.cond.Wait()
		}
		d.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		d.mu.Lock()
		snap := job.snapshot()
		d.mu.Unlock()
		return snap, snap.Err
	case <-timedOut:
		d.mu.Lock()
		snap := job.snapshot()
		d.mu.Unlock()
		return snap, ErrTimeout{JobID: string(jobID)}
	case <-ctx.Done():
		d.mu.Lock()
		snap := job.snapshot()
		d.mu.Unlock()
		return snap, ctx.Err()
	}
}

// Cancel requests cancellation of jobID. Terminal jobs are left alone and
// Cancel returns false for them (spec.md §4.5). The actual provider-side
// cancellation happens cooperatively in the job's background poller.
func (d *Dispatcher) Cancel(jobID JobID) (bool, error) {
	d.mu.Lock()
	job, ok := d.jobs[jobID]
	if !ok {
		d.mu.Unlock()
		return false, ErrJobNotFound{JobID: string(jobID)}
	}
	if job.State.IsTerminal() {
		d.mu.Unlock()
		return false, nil
	}
	job.cancelRequested = true
	d.mu.Unlock()
	return true, nil
}

// Benchmark runs circuit c once against each named device in parallel
// and returns BenchmarkRun records sorted by execution time ascending
// with failures last (spec.md §4.5). Devices whose qubit count is below
// c's width are excluded before dispatch rather than marked Failed
// (spec.md §8 scenario 6).
func (d *Dispatcher) Benchmark(ctx context.Context, c *circuit.Circuit, deviceNames []string) ([]BenchmarkRun, error) {
	devices, err := d.ListAllDevices(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]provider.DeviceInfo, len(devices))
	for _, dev := range devices {
		byName[dev.Name] = dev
	}

	fp := hex.EncodeToString(circuit.Fingerprint(c)[:])

	var wg sync.WaitGroup
	results := make([]BenchmarkRun, 0, len(deviceNames))
	var resultsMu sync.Mutex

	for _, name := range deviceNames {
		info, ok := byName[name]
		if !ok || info.Qubits < c.Width() {
			continue
		}
		wg.Add(1)
		go func(info provider.DeviceInfo) {
			defer wg.Done()
			run := d.benchmarkOne(ctx, c, info, fp)
			resultsMu.Lock()
			results = append(results, run)
			resultsMu.Unlock()
		}(info)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Success != results[j].Success {
			return results[i].Success // successes sort before failures
		}
		return results[i].ExecutionTimeMs < results[j].ExecutionTimeMs
	})
	return results, nil
}

func (d *Dispatcher) benchmarkOne(ctx context.Context, c *circuit.Circuit, info provider.DeviceInfo, fp string) BenchmarkRun {
	d.mu.Lock()
	prov, ok := d.regs[info.ProviderTag]
	d.mu.Unlock()
	if !ok {
		return BenchmarkRun{Device: info.Name, CircuitFingerprint: fp, Success: false, Error: ErrProviderNotRegistered{Tag: info.ProviderTag}.Error()}
	}

	start := d.clock.Now()
	handle, err := prov.Submit(ctx, c, info, 1)
	if err != nil {
		return BenchmarkRun{Device: info.Name, CircuitFingerprint: fp, Success: false, Error: err.Error()}
	}
	for {
		state, _, err := prov.Poll(ctx, handle)
		if err != nil {
			return BenchmarkRun{Device: info.Name, CircuitFingerprint: fp, Success: false, Error: err.Error()}
		}
		if state.IsTerminal() {
			elapsed := uint64(d.clock.Now().Sub(start).Milliseconds())
			return BenchmarkRun{
				Device:             info.Name,
				CircuitFingerprint: fp,
				ExecutionTimeMs:    elapsed,
				Success:            state == provider.Completed,
				Error:              terminalErrorMessage(state),
			}
		}
		time.Sleep(initialBackoff)
	}
}

func terminalErrorMessage(state provider.JobState) string {
	if state == provider.Completed {
		return ""
	}
	return string(state)
}

// Close cancels every non-terminal job (best-effort, fire-and-forget)
// then drops providers in registration order (spec.md §3's teardown
// rule). Close does not wait for cancellations to be acknowledged.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	for _, job := range d.jobs {
		if !job.State.IsTerminal() {
			job.cancelRequested = true
		}
	}
	order := append([]string(nil), d.order...)
	d.mu.Unlock()

	for _, tag := range order {
		d.mu.Lock()
		delete(d.regs, tag)
		d.mu.Unlock()
	}
	return nil
}

func (d *Dispatcher) inflightLocked() int {
	n := 0
	for _, job := range d.jobs {
		if !job.State.IsTerminal() {
			n++
		}
	}
	return n
}

func (d *Dispatcher) snapshotProviders() (map[string]provider.Provider, []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]provider.Provider, len(d.regs))
	for k, v := range d.regs {
		out[k] = v
	}
	order := append([]string(nil), d.order...)
	return out, order
}

// run is the per-job background task spec.md §5 describes: submit,
// backoff-poll until terminal, merge result under the lock. It is the
// only place background work exists in the dispatcher.
func (d *Dispatcher) run(ctx context.Context, job *Job, prov provider.Provider, device provider.DeviceInfo) {
	handle, err := d.submitWithRetry(ctx, job, prov, device)
	if err != nil {
		d.transition(job, provider.Failed, nil, err)
		return
	}
	d.transition(job, provider.Running, nil, nil)

	backoff := initialBackoff
	for {
		d.mu.Lock()
		cancelled := job.cancelRequested
		d.mu.Unlock()
		if cancelled {
			_, _ = prov.Cancel(ctx, handle)
			d.transition(job, provider.Cancelled, nil, nil)
			return
		}

		state, result, err := prov.Poll(ctx, handle)
		if err != nil {
			if isTransient(err) && job.retriesRemaining > 0 {
				job.retriesRemaining--
				time.Sleep(backoffFor(&backoff, err))
				continue
			}
			d.transition(job, provider.Failed, nil, err)
			return
		}
		if state.IsTerminal() {
			d.transition(job, state, result, nil)
			return
		}
		time.Sleep(backoffFor(&backoff, nil))
	}
}

func (d *Dispatcher) submitWithRetry(ctx context.Context, job *Job, prov provider.Provider, device provider.DeviceInfo) (provider.JobHandle, error) {
	backoff := initialBackoff
	for {
		handle, err := prov.Submit(ctx, job.Circuit, device, job.Shots)
		if err == nil {
			return handle, nil
		}
		if isTransient(err) && job.retriesRemaining > 0 {
			job.retriesRemaining--
			time.Sleep(backoffFor(&backoff, err))
			continue
		}
		return "", err
	}
}

// isTransient reports whether err is retryable per spec.md §7:
// ProviderUnavailable(retryable=true) and ProviderThrottled are retried;
// ProviderUnauthorized and Unsupported errors are fatal immediately.
func isTransient(err error) bool {
	switch e := err.(type) {
	case provider.ErrProviderUnavailable:
		return e.Retryable
	case provider.ErrProviderThrottled:
		return true
	default:
		return false
	}
}

// backoffFor returns the delay to sleep before the next retry/poll,
// honoring a server-suggested retry_after when present, and otherwise
// doubling the running backoff up to maxBackoff (spec.md §5: "initial
// 100 ms, exponential to 5 s cap").
func backoffFor(running *time.Duration, err error) time.Duration {
	if throttled, ok := err.(provider.ErrProviderThrottled); ok && throttled.RetryAfter > 0 {
		return throttled.RetryAfter
	}
	delay := *running
	*running *= 2
	if *running > maxBackoff {
		*running = maxBackoff
	}
	return delay
}

// transition merges a job's terminal or intermediate outcome under the
// job-table lock and wakes every AwaitResult waiter (spec.md §5's
// condvar-per-table design). Non-terminal -> terminal and
// Queued -> Running are the only transitions this dispatcher performs;
// it never moves a job backward (spec.md §8's monotonicity property).
func (d *Dispatcher) transition(job *Job, state provider.JobState, result *simulator.JobResult, err error) {
	d.mu.Lock()
	job.State = state
	if state.IsTerminal() {
		job.FinishedAt = d.clock.Now()
		job.Result = result
		job.Err = err
	}
	d.mu.Unlock()

	if d.log != nil {
		if err != nil {
			d.log.Warn().Err(err).Str("job", string(job.ID)).Str("state", string(state)).Msg("job transition")
		} else {
			d.log.Info().Str("job", string(job.ID)).Str("state", string(state)).Msg("job transition")
		}
	}

	d.mu.Lock()
	d.cond.Broadcast()
	d.mu.Unlock()
}
