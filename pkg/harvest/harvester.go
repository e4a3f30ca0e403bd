package harvest

import (
	"io"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/dwest77a/stac-harvester/pkg/config"
	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// Harvester drives the harvest pipeline. For each node yielded by the
// source reader, it rewrites the node's links for the destination and
// publishes it, strictly in sequence.
type Harvester struct {
	reader    Reader
	publisher Publisher
	ctx       Context
	clock     clockwork.Clock
}

// New resolves a reader, publisher, and rewrite context for the given
// configuration. The backend kinds are dispatched here, once; nothing
// downstream branches on them again.
func New(conf config.Harvester) (*Harvester, error) {
	reader, sourceRoot, err := newReader(conf.Input)
	if err != nil {
		return nil, errors.WithContext(err, "open source")
	}

	publisher, ctx, err := newPublisher(conf.Output)
	if err != nil {
		return nil, errors.WithContext(err, "open destination")
	}
	ctx.SourceRoot = sourceRoot

	return &Harvester{
		reader:    reader,
		publisher: publisher,
		ctx:       ctx,
		clock:     clockwork.NewRealClock(),
	}, nil
}

// Run executes the harvest and returns the aggregated report. A source read
// failure aborts the run; publish failures don't, but they're reflected in
// the report.
func (h *Harvester) Run() (Report, error) {
	start := h.clock.Now()
	report := Report{}

	for {
		node, err := h.reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Elapsed = h.clock.Now().Sub(start)
			return report, errors.WithContext(err, "read source")
		}

		rewritten := Rewrite(node, h.ctx)
		result := h.publisher.Publish(rewritten)
		report.Record(result)

		if result.Status == StatusFailed {
			log.WithError(result.Err).Warnf("Failed to publish %s %q",
				typeName(result.Type), result.ID)
		} else {
			log.Debugf("Published %s %q (%s)", typeName(result.Type), result.ID,
				result.Status)
		}

		// Subsequent items link to the most recently published collection.
		if rewritten.Type == stac.TypeCollection {
			h.ctx.Parent = rewritten
		}
	}

	if err := h.publisher.Flush(); err != nil {
		report.Elapsed = h.clock.Now().Sub(start)
		return report, errors.WithContext(err, "save destination catalog")
	}

	report.Elapsed = h.clock.Now().Sub(start)
	return report, nil
}

func typeName(t stac.Type) string {
	if t == stac.TypeCollection {
		return "Collection"
	}
	return "Item"
}
