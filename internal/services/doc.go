// Package services runs a rewrite over a whole source tree.
//
// RewriteService discovers script files, rewrites each one independently
// (in parallel, bounded by RunConfig.Jobs), classifies every file as
// unchanged, updated or skipped, asks an Approver before touching the disk,
// and writes only the files whose content changed. Files that hit a fatal
// error keep their original content.
package services
