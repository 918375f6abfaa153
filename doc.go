// Package pivotchart turns pivot-table state into chart recommendations and
// chart-ready data.
//
// Usage:
//
//	import (
//	    "github.com/mindfiredigital/PivotHead-sub001/engine"
//	    "github.com/mindfiredigital/PivotHead-sub001/recommend"
//	)
//
//	recs := recommend.NewEngine().Recommend(state)
//	best, _ := recs.Best()
//	result, err := engine.Build(best.ChartType, engine.InputFromState(state, nil),
//	    engine.WithLimit(20),
//	)
//
// The profile package summarizes the data shape, recommend scores chart types
// against it, engine reshapes pivot cells per chart type and sampler bounds
// oversized category sets. Everything is computed locally; the api and
// cmd/pivotchart packages are thin adapters over the same pipeline.
package pivotchart
