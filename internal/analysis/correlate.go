package analysis

import (
	"fmt"
	"log/slog"
	goruntime "runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/715d/sinkreach/internal/profile"
)

// Row is the report record for one sink occurrence: a (sink function,
// call site) pair with its static and dynamic analysis verdicts.
type Row struct {
	// Sink is the sink function's name.
	Sink string

	// Callsite is the call-site descriptor string.
	Callsite string

	// Reachable reports whether the descriptor was confirmed statically
	// reachable.
	Reachable bool

	// CoveredBy lists the fuzzers covering the sink when the calling
	// line was executed at runtime, empty otherwise. Never a partial or
	// guessed list.
	CoveredBy []string
}

// Correlate resolves dynamic coverage for every sink occurrence and
// assembles the report rows. Each sink's work is independent, so sinks
// are processed concurrently; rows are sorted afterwards for
// byte-stable output.
func Correlate(sinks []*profile.Function, idx CallsiteIndex, reachable DescriptorSet, cov profile.Coverage) []Row {
	// Pre-allocated results slice, one slot per sink. Each goroutine
	// writes only its own index; the merge happens after Wait.
	results := make([][]Row, len(sinks))

	var wg errgroup.Group
	wg.SetLimit(goruntime.NumCPU())

	for i, fn := range sinks {
		wg.Go(func() error {
			results[i] = correlateSink(fn, idx, reachable, cov)
			return nil
		})
	}

	_ = wg.Wait()

	var rows []Row
	for _, part := range results {
		rows = append(rows, part...)
	}

	slices.SortFunc(rows, func(a, b Row) int {
		if cmp := strings.Compare(a.Sink, b.Sink); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.Callsite, b.Callsite)
	})

	return rows
}

// correlateSink builds the rows for a single sink function.
func correlateSink(fn *profile.Function, idx CallsiteIndex, reachable DescriptorSet, cov profile.Coverage) []Row {
	var rows []Row

	for _, desc := range idx[fn.Name].Sorted() {
		hit := false
		line, err := descriptorLine(desc)
		if err != nil {
			// A malformed descriptor skips the coverage probe for this
			// occurrence; the pass continues.
			slog.Warn("skipping coverage probe for malformed callsite descriptor",
				"sink", fn.Name, "callsite", desc, "error", err)
		} else if cov != nil {
			// First covered caller wins; order among incoming
			// references is insignificant.
			for _, caller := range fn.IncomingReferences {
				if cov.IsLineHit(caller, line) {
					hit = true
					break
				}
			}
		}

		covered := []string{}
		if hit {
			covered = fn.ReachedByFuzzers
		}

		rows = append(rows, Row{
			Sink:      fn.Name,
			Callsite:  desc,
			Reachable: reachable.Contains(desc),
			CoveredBy: covered,
		})
	}

	return rows
}

// descriptorLine parses the line number out of a call-site descriptor,
// the suffix after the final ':'.
func descriptorLine(desc string) (int, error) {
	i := strings.LastIndex(desc, ":")
	if i < 0 {
		return 0, fmt.Errorf("descriptor %q has no line suffix", desc)
	}
	line, err := strconv.Atoi(desc[i+1:])
	if err != nil {
		return 0, fmt.Errorf("descriptor %q has no line suffix: %w", desc, err)
	}
	return line, nil
}
