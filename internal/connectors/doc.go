// Package connectors groups the sources that feed journal entries into the
// entry service. Each connector lives in its own subpackage and writes
// through driving.EntryService, so imported entries reach the index the same
// way as entries created from the CLI.
//
// journaldir reads a directory of Markdown and plain-text files.
package connectors
