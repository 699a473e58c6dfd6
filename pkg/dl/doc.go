// Package dl wires the download, extraction and parsing collaborators into
// pipe stages, so a data-download script reads as one chain:
//
//	warns := pipe.NewWarnings(logger)
//	rows := pipe.Compose(
//		dl.Download(ctx, ftpConn, pipe.WithWarnings(warns)),
//		dl.Untar(logger),
//		pipe.Map(firstFile),
//		dl.ParseCSV('\t'),
//	).Apply("data/listings.tar.gz")
//
// Every stage follows the combinator contract: a fault inside a stage
// becomes an absent value plus a warning, never a panic up the chain.
package dl
