// Package history keeps a SQLite log of finished player runs.
//
// Each crop-detect, preview, or convert run that reaches its completion event
// is written as one row holding the command line, exit code, outcome, and the
// failure diagnostic when there was one. The `super8 history` command reads
// the newest rows back.
//
// The schema is versioned through the schema_version table. A mismatch is
// reported with ErrSchemaMismatch; users delete the database to adopt a new
// layout since the rows are informational only.
package history
