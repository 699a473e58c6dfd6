// Package parse reads downloaded files into plain Go containers ready for
// the pipe boundary adapter: CSV rows as string maps, JSON as decoded
// values, and XML subtrees as nested maps located by a breadth-first tag
// search.
package parse
