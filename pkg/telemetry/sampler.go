package telemetry

import (
	"strconv"

	"go.opentelemetry.io/otel/sdk/trace"
)

// defaultPlanRepoSampleRatio bounds span volume for the plan cache's
// Get/Put/Purge calls, which fire once per plan lookup and can dwarf the
// handful of spans a single CLI invocation otherwise emits, when no
// explicit OTEL_TRACES_SAMPLER is configured.
const defaultPlanRepoSampleRatio = 0.1

// createSampler creates a trace sampler based on configuration.
// Defaults to AlwaysSample (full sampling) if no sampler is specified,
// except for the plan cache component (cfg.Component == "planrepo"), which
// defaults to a low traceidratio instead so its per-lookup spans don't
// swamp the backend.
func createSampler(cfg *Config) trace.Sampler {
	switch cfg.Sampler {
	case "always_on":
		return trace.AlwaysSample()

	case "always_off":
		return trace.NeverSample()

	case "traceidratio":
		ratio := parseRatio(cfg.SamplerArg)
		return trace.TraceIDRatioBased(ratio)

	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())

	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())

	case "parentbased_traceidratio":
		ratio := parseRatio(cfg.SamplerArg)
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))

	default:
		if cfg.Component == "planrepo" {
			return trace.ParentBased(trace.TraceIDRatioBased(defaultPlanRepoSampleRatio))
		}
		return trace.AlwaysSample()
	}
}

// parseRatio parses a sampling ratio string to float64.
// Returns 1.0 (full sampling) if parsing fails or value is out of range.
func parseRatio(s string) float64 {
	if s == "" {
		return 1.0
	}

	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1.0
	}

	// Clamp to valid range [0, 1]
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1.0
	}

	return ratio
}
