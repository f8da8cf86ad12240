package detection

import (
	"github.com/menta2k/spatial-annotator/pkg/extract"
	"github.com/menta2k/spatial-annotator/pkg/types"
)

// Keys recognised in a model record
const (
	PointKey = "point"
	BoxKey   = "box_2d"
	LabelKey = "label"
)

// Stats summarises one classification pass
type Stats struct {
	Records    int `json:"records"`
	Recognized int `json:"recognized"`
	Skipped    int `json:"skipped"`
}

// Parse extracts records from a model response and classifies them.
// The error, if any, comes from extract.Records and matches extract.ErrParse.
func Parse(text string) (types.DetectionSet, Stats, error) {
	records, err := extract.Records(text)
	if err != nil {
		return types.DetectionSet{}, Stats{}, err
	}
	set, stats := ClassifyAll(records)
	return set, stats, nil
}

// ClassifyAll converts records into detections, keeping source order and
// dropping anything that is neither a point nor a box.
func ClassifyAll(records []extract.Record) (types.DetectionSet, Stats) {
	items := make([]types.Detection, 0, len(records))
	for _, rec := range records {
		if d, ok := Classify(rec); ok {
			items = append(items, d)
		}
	}
	return types.NewDetectionSet(items), Stats{
		Records:    len(records),
		Recognized: len(items),
		Skipped:    len(records) - len(items),
	}
}

// Classify turns a single record into a Point or a Box.
//
// "point" wins over "box_2d" when both are present. A record whose coordinate
// value is not a list of the right number of numbers is reported as
// unrecognized; coordinate ranges are not checked.
func Classify(rec extract.Record) (types.Detection, bool) {
	if rec == nil {
		return nil, false
	}

	label, hasLabel := rec[LabelKey].(string)

	if raw, ok := rec[PointKey]; ok {
		v, ok := numbers(raw, 2)
		if !ok {
			return nil, false
		}
		return types.Point{Y: v[0], X: v[1], Label: label, HasLabel: hasLabel}, true
	}

	if raw, ok := rec[BoxKey]; ok {
		v, ok := numbers(raw, 4)
		if !ok {
			return nil, false
		}
		return types.Box{
			YMin: v[0], XMin: v[1], YMax: v[2], XMax: v[3],
			Label: label, HasLabel: hasLabel,
		}, true
	}

	return nil, false
}

// numbers reads a JSON list of exactly n numbers
func numbers(raw any, n int) ([]float64, bool) {
	list, ok := raw.([]any)
	if !ok || len(list) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, item := range list {
		f, ok := item.(float64)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
