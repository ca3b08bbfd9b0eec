package dispatcher

import (
	"sort"
	"strings"

	"github.com/firebitsbr/houdinis/qcore/provider"
)

// Policy ranks device preference for AutoSelect (spec.md §4.5). It is a
// closed set so the ranking switch below can be exhaustive.
type Policy string

const (
	Development Policy = "Development"
	Validation  Policy = "Validation"
	Performance Policy = "Performance"
	Production  Policy = "Production"
)

// isAccelerated reports whether a RemoteSimulator device advertises a
// GPU or tensor-network backend. The reference DeviceInfo has no
// dedicated tag field for this, so the preference rule reads it off the
// free-text Description the way a provider would describe its own
// hardware tier; a future DeviceInfo.Tags field would replace this.
func isAccelerated(d provider.DeviceInfo) bool {
	desc := strings.ToLower(d.Description)
	return strings.Contains(desc, "gpu") || strings.Contains(desc, "tensor-network") || strings.Contains(desc, "tensor network")
}

// eligible reports whether d can host a circuit of the given width at
// all, independent of policy: every policy requires this (spec.md §4.5).
func eligible(d provider.DeviceInfo, width int) bool {
	return d.Operational && d.Qubits >= width
}

// rankedDevice pairs a device with the (tier, secondary) key its policy
// assigns it; lower tier is preferred, then lower secondary, then name.
type rankedDevice struct {
	device    provider.DeviceInfo
	tier      int
	secondary int
}

// rankByPolicy assigns every eligible device a tier per the preference
// rules of spec.md §4.5's four named policies.
func rankByPolicy(devices []provider.DeviceInfo, width int, policy Policy) []rankedDevice {
	var out []rankedDevice
	for _, d := range devices {
		if !eligible(d, width) {
			continue
		}
		tier, ok := tierFor(d, policy)
		if !ok {
			continue
		}
		out = append(out, rankedDevice{device: d, tier: tier, secondary: d.PendingJobs})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].tier != out[j].tier {
			return out[i].tier < out[j].tier
		}
		if out[i].secondary != out[j].secondary {
			return out[i].secondary < out[j].secondary
		}
		return out[i].device.Name < out[j].device.Name
	})
	return out
}

// tierFor returns the policy-specific preference tier for d, or ok=false
// if the policy excludes d's kind entirely.
func tierFor(d provider.DeviceInfo, policy Policy) (tier int, ok bool) {
	switch policy {
	case Development:
		// LocalSimulator -> RemoteSimulator(GPU) -> RemoteSimulator -> Hardware(by queue).
		switch {
		case d.Kind == provider.KindLocalSimulator:
			return 0, true
		case d.Kind == provider.KindRemoteSimulator && isAccelerated(d):
			return 1, true
		case d.Kind == provider.KindRemoteSimulator:
			return 2, true
		case d.Kind == provider.KindHardware:
			return 3, true
		}
	case Validation:
		// Hardware(pending<5) -> RemoteSimulator -> LocalSimulator -> Hardware(pending>=5).
		switch {
		case d.Kind == provider.KindHardware && d.PendingJobs < 5:
			return 0, true
		case d.Kind == provider.KindRemoteSimulator:
			return 1, true
		case d.Kind == provider.KindLocalSimulator:
			return 2, true
		case d.Kind == provider.KindHardware:
			return 3, true
		}
	case Performance:
		// RemoteSimulator(GPU/tensor-network) -> RemoteSimulator -> LocalSimulator -> Hardware.
		switch {
		case d.Kind == provider.KindRemoteSimulator && isAccelerated(d):
			return 0, true
		case d.Kind == provider.KindRemoteSimulator:
			return 1, true
		case d.Kind == provider.KindLocalSimulator:
			return 2, true
		case d.Kind == provider.KindHardware:
			return 3, true
		}
	case Production:
		// Operational Hardware of sufficient qubits -> RemoteSimulator -> LocalSimulator.
		switch {
		case d.Kind == provider.KindHardware:
			return 0, true
		case d.Kind == provider.KindRemoteSimulator:
			return 1, true
		case d.Kind == provider.KindLocalSimulator:
			return 2, true
		}
	}
	return 0, false
}
