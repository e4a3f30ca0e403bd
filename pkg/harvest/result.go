package harvest

import (
	"fmt"
	"time"

	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// Status describes the outcome of publishing a single node.
type Status string

const (
	// StatusCreated means the destination didn't have the id yet and the
	// node was written for the first time.
	StatusCreated Status = "created"

	// StatusUpdated means the destination already had the id and the node
	// replaced it in place.
	StatusUpdated Status = "updated"

	// StatusFailed means the node could not be committed to the destination.
	StatusFailed Status = "failed"
)

// Result records the outcome of publishing one node. Err is only set when
// the status is StatusFailed.
type Result struct {
	ID     string
	Type   stac.Type
	Status Status
	Err    error
}

// Report aggregates the per-node results of one harvest run. Failed nodes
// don't abort the harvest, but they're collected here so the run as a whole
// can be reported as failed.
type Report struct {
	Collections int
	Items       int
	Failures    []Result
	Elapsed     time.Duration
}

// Record folds one publish result into the report.
func (r *Report) Record(result Result) {
	if result.Status == StatusFailed {
		r.Failures = append(r.Failures, result)
		return
	}

	if result.Type == stac.TypeCollection {
		r.Collections++
	} else {
		r.Items++
	}
}

// Err returns an error describing the failed publishes, or nil if every node
// was committed.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return errors.NewFriendlyError(
		"%d objects failed to publish. See the log above for details.",
		len(r.Failures))
}

// Summary returns the one-line summary printed at the end of a harvest.
func (r Report) Summary() string {
	return fmt.Sprintf("Harvested %d Collections and %d Items in %s",
		r.Collections, r.Items, r.Elapsed)
}
