// Package dbx issues ad hoc queries for download scripts: raw MySQL result
// rows, per-column value pivots written as tab-delimited files, and vendor
// configuration lookups from DynamoDB.
package dbx
