// Package config defines the montage settings snapshot and its persistence.
//
// Settings are stored as a single JSON document under the user's config
// directory. Loading decodes the stored document over the hardcoded defaults,
// so fields missing from older documents silently keep their default values.
// The document carries a schema version; documents written by older releases
// are migrated field-by-field on load (see Parse).
//
// A Settings value is treated as an immutable snapshot for the duration of a
// pipeline run: the pipeline copies it at run start and never observes later
// edits.
package config
