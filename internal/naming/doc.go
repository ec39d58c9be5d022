// Package naming interprets plate-scan filenames: normalization into the
// canonical <id>-<channel>[-<variant>].tif shape, parsing into structured
// records, and channel classification.
//
// Scan filenames arrive sloppy. The conventions handled here:
//
//	01-red.tif        first red scan of image 01
//	23-blue-2.tif     second blue scan of image 23
//	01 red 3.tif      whitespace instead of dashes (normalized)
//	01-reed.tif       misspelled channel (first letter decides: red)
//	10-bf.tif         brightfield (excluded from merging)
//
// Normalization is lossy on purpose: "01 red 3.tif" and "01 red-3.tif" both
// become "01-red-3.tif", and the later file by enumeration order wins. The
// index layer surfaces that overwrite as a collision warning.
package naming
