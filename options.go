package docreview

import (
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/metrics"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/vocab"
)

// reviewOptions holds the configuration of a Reviewer.
type reviewOptions struct {
	preserved  model.PreservedTableMetadata
	vocabulary vocab.Vocabulary
	logger     logging.Logger
	metrics    metrics.Recorder
}

// clone creates a deep copy of reviewOptions.
func (o reviewOptions) clone() reviewOptions {
	out := o
	if o.preserved != nil {
		out.preserved = make(model.PreservedTableMetadata, len(o.preserved))
		for k, v := range o.preserved {
			v.ColumnHeaders = append([]string(nil), v.ColumnHeaders...)
			out.preserved[k] = v
		}
	}
	return out
}

func (o reviewOptions) config() Config {
	return Config{Vocabulary: o.vocabulary, Logger: o.logger, Metrics: o.metrics}
}
