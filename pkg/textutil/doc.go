// Package textutil provides regex-driven string helpers for cleaning up the
// ragged text that download scripts deal with: splitting and trimming by
// pattern instead of by character set, capitalizing word-wise, and parsing
// dates out of noisy strings.
package textutil
