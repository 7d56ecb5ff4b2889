// Package treeify rebuilds nested trees from the flat rows a chain of
// left outer joins produces. Given rows and the join-key names in
// outer-to-inner order, it groups by the first key and recurses with
// the remainder, so one query over N related tables reads back as a
// forest.
package treeify

import "reflect"

// Row is one flat joined row keyed by column name.
type Row map[string]any

// Node wraps one distinct value at some level of the tree. Leaves have
// nil Children.
type Node struct {
	Value    any    `json:"value"`
	Children []Node `json:"children,omitempty"`
}

// Build converts rows into a forest following keys outer-to-inner.
// Rows whose value for the current key is absent (a failed outer join)
// are skipped at that level. Values deduplicate by structural
// equality, first seen wins, so output order follows input order and
// repeated calls on the same input yield the same forest.
func Build(rows []Row, keys []string) []Node {
	if len(keys) == 0 {
		return nil
	}

	key := keys[0]
	var nodes []Node
	for _, row := range rows {
		value, ok := row[key]
		if !ok || value == nil {
			continue
		}
		if containsValue(nodes, value) {
			continue
		}

		node := Node{Value: value}
		if len(keys) > 1 {
			node.Children = Build(matchingRows(rows, key, value), keys[1:])
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Flatten is the inverse walk: it re-collects every root-to-node value
// path in the forest, one tuple per node.
func Flatten(nodes []Node) [][]any {
	var tuples [][]any
	for _, node := range nodes {
		tuples = append(tuples, []any{node.Value})
		for _, child := range Flatten(node.Children) {
			tuples = append(tuples, append([]any{node.Value}, child...))
		}
	}
	return tuples
}

func containsValue(nodes []Node, value any) bool {
	for _, node := range nodes {
		if reflect.DeepEqual(node.Value, value) {
			return true
		}
	}
	return false
}

func matchingRows(rows []Row, key string, value any) []Row {
	var subset []Row
	for _, row := range rows {
		if candidate, ok := row[key]; ok && reflect.DeepEqual(candidate, value) {
			subset = append(subset, row)
		}
	}
	return subset
}
