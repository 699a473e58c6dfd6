// Package archive extracts tar, zip and gzip files into fresh temp
// directories, returning the extracted paths.
//
// Tar and zip extraction reject any member whose resolved path would escape
// the destination directory: a traversal attempt aborts the extraction with
// an error, it is never silently skipped.
package archive
