package engine

import (
	"strings"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

const pathSeparator = "/"

// BuildTreemap builds a path-keyed tree over the hierarchy fields
// (Input.RowFields, or RowField alone). Values of the selected measure are
// accumulated at leaf depth only, then summed bottom-up so every internal
// node equals the sum of its children. Records with a null hierarchy value
// are skipped. A count measure adds 1 per record.
func BuildTreemap(in Input, opts ...Option) *TreemapData {
	f := prepare(in, opts)

	out := &TreemapData{
		ChartData: f.chartData(ChartTreemap),
		Tree:      []*TreeNode{},
	}

	fields := in.RowFields
	if len(fields) == 0 && in.RowField != "" {
		fields = []string{in.RowField}
	}
	if len(fields) == 0 || f.measure.UniqueName == "" {
		return out
	}

	view := ApplyFilters(NewSliceView(in.Records), f.cfg.filtersFor(fields[0], ""))
	nodes := make(map[string]*TreeNode)

	for i := 0; i < view.Len(); i++ {
		names := make([]string, len(fields))
		skip := false
		for d, field := range fields {
			names[d] = view.Dimension(i, field)
			if names[d] == "" {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		var parent *TreeNode
		for d := range fields {
			path := strings.Join(names[:d+1], pathSeparator)
			node, ok := nodes[path]
			if !ok {
				node = &TreeNode{Name: names[d], Path: path, Depth: d + 1}
				nodes[path] = node
				if parent == nil {
					out.Tree = append(out.Tree, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}

		if f.measure.Aggregation == schema.AggCount {
			parent.Value++
		} else if v, ok := view.Measure(i, f.measure.UniqueName); ok {
			parent.Value += v
		}
	}

	if len(out.Tree) == 0 {
		return out
	}
	for _, root := range out.Tree {
		out.TotalValue += propagate(root)
		if d := treeDepth(root); d > out.MaxDepth {
			out.MaxDepth = d
		}
	}

	out.Labels = make([]string, len(out.Tree))
	data := make([]float64, len(out.Tree))
	for i, root := range out.Tree {
		out.Labels[i] = root.Name
		data[i] = root.Value
	}
	out.Series = []Series{{Name: f.measure.Label(), Data: data}}
	return out
}

// propagate sets each internal node's value to the sum of its children.
func propagate(n *TreeNode) float64 {
	if len(n.Children) == 0 {
		return n.Value
	}
	var sum float64
	for _, c := range n.Children {
		sum += propagate(c)
	}
	n.Value = sum
	return sum
}

func treeDepth(n *TreeNode) int {
	deepest := n.Depth
	for _, c := range n.Children {
		if d := treeDepth(c); d > deepest {
			deepest = d
		}
	}
	return deepest
}
