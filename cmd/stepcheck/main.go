// Package main prints how frame deltas are clamped and split into
// sub-steps under a config's step policy.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
)

func main() {
	configPath := flag.String("config", "", "Config file (empty = use defaults)")
	deltas := flag.String("dt", "0.008,0.016,0.033,0.1,0.5", "Comma-separated frame deltas in seconds")
	clampMax := flag.Float64("clamp-max", 0, "Override step.clamp_max (0 = use config)")
	maxStep := flag.Float64("max-step", 0, "Override step.max_step (0 = use config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	policy := cfg.StepPolicy()
	if *clampMax > 0 {
		policy.ClampEnabled = true
		policy.ClampMax = *clampMax
	}
	if *maxStep > 0 {
		policy.AdaptiveEnabled = true
		policy.MaxStep = *maxStep
		if policy.MinStep == 0 || policy.MinStep > *maxStep {
			policy.MinStep = *maxStep / 10
		}
	}
	if err := policy.Validate(); err != nil {
		log.Fatalf("step policy: %v", err)
	}

	dts, err := parseDeltas(*deltas)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("clamp=%v max=%g adaptive=%v steps=[%g, %g]\n\n",
		policy.ClampEnabled, policy.ClampMax, policy.AdaptiveEnabled, policy.MinStep, policy.MaxStep)
	report(os.Stdout, policy, dts)
}

func parseDeltas(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad delta %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func report(w io.Writer, policy core.StepConfig, dts []float64) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DT\tCLAMPED\tSTEPS\tSIZES")
	var buf []float64
	for _, dt := range dts {
		buf = policy.AppendSubSteps(buf[:0], dt)
		sizes := make([]string, len(buf))
		for i, st := range buf {
			sizes[i] = strconv.FormatFloat(st, 'g', 4, 64)
		}
		fmt.Fprintf(tw, "%g\t%g\t%d\t%s\n", dt, policy.Clamp(dt), len(buf), strings.Join(sizes, " "))
	}
	tw.Flush()
}
