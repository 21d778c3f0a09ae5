package graph

import "strings"

// Delimiter joins cycle nodes in signatures and display strings.
const Delimiter = " -> "

// MinimalCycle reduces a raw traversal path to its repeating suffix. The
// input is the path stack with the repeated node appended at the end, e.g.
// [A B C B]; the cycle is the suffix from the first occurrence of that
// final node, [B C B], the non-repeating prefix discarded. Empty and
// single-element inputs pass through unchanged.
func MinimalCycle(rawPath []string) []string {
	if len(rawPath) < 2 {
		return rawPath
	}
	last := rawPath[len(rawPath)-1]
	for i, node := range rawPath {
		if node == last {
			out := make([]string, len(rawPath)-i)
			copy(out, rawPath[i:])
			return out
		}
	}
	return rawPath
}

// Signature produces the rotation-invariant identity of the cycle in
// rawPath: the minimal cycle is rotated so its lexicographically smallest
// node leads, the closing repetition re-appended, and the nodes joined
// with Delimiter. Two traversals that discover the same cyclic order from
// different starting points yield byte-identical signatures.
func Signature(rawPath []string) string {
	cycle := MinimalCycle(rawPath)
	if len(cycle) < 2 {
		return strings.Join(cycle, Delimiter)
	}

	nodes := cycle[:len(cycle)-1]
	smallest := 0
	for i := 1; i < len(nodes); i++ {
		if nodes[i] < nodes[smallest] {
			smallest = i
		}
	}

	rotated := make([]string, 0, len(nodes)+1)
	rotated = append(rotated, nodes[smallest:]...)
	rotated = append(rotated, nodes[:smallest]...)
	rotated = append(rotated, rotated[0])
	return strings.Join(rotated, Delimiter)
}
