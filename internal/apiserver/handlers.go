package apiserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firebitsbr/houdinis/qcore/dispatcher"
	"github.com/firebitsbr/houdinis/qcore/provider"
)

// deviceResponse mirrors provider.DeviceInfo with explicit JSON tags,
// since the qcore package itself carries no wire-format concern.
type deviceResponse struct {
	Name        string `json:"name"`
	ProviderTag string `json:"provider_tag"`
	Kind        string `json:"kind"`
	Qubits      int    `json:"qubits"`
	Operational bool   `json:"operational"`
	PendingJobs int    `json:"pending_jobs"`
	Description string `json:"description"`
}

func toDeviceResponse(d provider.DeviceInfo) deviceResponse {
	return deviceResponse{
		Name: d.Name, ProviderTag: d.ProviderTag, Kind: string(d.Kind),
		Qubits: d.Qubits, Operational: d.Operational, PendingJobs: d.PendingJobs,
		Description: d.Description,
	}
}

func (s *Server) handleListDevices(c *gin.Context) {
	devices, err := s.dispatcher.ListAllDevices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]deviceResponse, len(devices))
	for i, d := range devices {
		out[i] = toDeviceResponse(d)
	}
	c.JSON(http.StatusOK, gin.H{"devices": out})
}

// submitRequest is the POST /v1/jobs body: spec.md §4.5's submit(circuit,
// device?, shots) request, exposed over HTTP.
type submitRequest struct {
	Circuit CircuitDTO `json:"circuit"`
	Device  string     `json:"device,omitempty"`
	Shots   int        `json:"shots,omitempty"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

func (s *Server) handleSubmitJob(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	circ, err := req.Circuit.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shots := req.Shots
	if shots <= 0 {
		shots = s.defaultShots
	}
	jobID, err := s.dispatcher.Submit(c.Request.Context(), circ, req.Device, shots)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, submitResponse{JobID: string(jobID)})
}

// jobResponse mirrors dispatcher.Snapshot (spec.md §6's JobResult
// format: counts keyed by ASCII bitstring, execution time in ms).
type jobResponse struct {
	ID              string            `json:"id"`
	Device          string            `json:"device"`
	Shots           int               `json:"shots"`
	State           string            `json:"state"`
	Counts          map[string]uint64 `json:"counts,omitempty"`
	ShotsExecuted   uint32            `json:"shots_executed,omitempty"`
	ExecutionTimeMs uint64            `json:"execution_time_ms,omitempty"`
	Error           string            `json:"error,omitempty"`
}

func toJobResponse(snap dispatcher.Snapshot) jobResponse {
	resp := jobResponse{
		ID: string(snap.ID), Device: snap.Device, Shots: snap.Shots,
		State: string(snap.State), ExecutionTimeMs: snap.ExecutionTimeMs,
	}
	if snap.Result != nil {
		resp.Counts = snap.Result.Counts
		resp.ShotsExecuted = snap.Result.ShotsExecuted
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}

func (s *Server) handlePollJob(c *gin.Context) {
	id := dispatcher.JobID(c.Param("id"))

	if _, wait := c.GetQuery("wait"); wait {
		snap, err := s.dispatcher.AwaitResult(c.Request.Context(), id, s.awaitTimeout)
		var notFound dispatcher.ErrJobNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		// A Timeout is reported as a 200 with the job's current
		// (non-terminal) snapshot rather than an HTTP error: the poll
		// itself succeeded, the job simply isn't done yet.
		c.JSON(http.StatusOK, toJobResponse(snap))
		return
	}

	snap, err := s.dispatcher.Poll(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toJobResponse(snap))
}

// benchmarkRequest is the POST /v1/benchmark body: spec.md §4.5's
// benchmark(circuit, devices) request.
type benchmarkRequest struct {
	Circuit CircuitDTO `json:"circuit"`
	Devices []string   `json:"devices"`
}

func (s *Server) handleBenchmark(c *gin.Context) {
	var req benchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	circ, err := req.Circuit.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runs, err := s.dispatcher.Benchmark(c.Request.Context(), circ, req.Devices)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// statusFor maps a dispatcher error to an HTTP status code; the default
// catches the error kinds that are always the caller's fault.
func statusFor(err error) int {
	var notFound provider.ErrDeviceNotFound
	var noSuitable dispatcher.ErrNoSuitableDevice
	var exhausted dispatcher.ErrResourceExhausted
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &noSuitable):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exhausted):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
