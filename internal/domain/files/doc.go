// Package files implements the station file manager: path containment, directory
// listings merged with stored media metadata, batch operations, and transfers.
//
// Every caller-supplied path goes through a Guard bound to the station's canonical
// media root before anything touches the filesystem. The Lister, BatchEngine and
// transfer helpers only ever receive post-guard absolute paths.
//
// Batch operations are best effort per item: failures are counted and logged, and
// the batch still succeeds. Playlist mutations end with exactly one call to the
// playback configuration writer.
package files
