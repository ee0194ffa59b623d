// Package journaldir imports a directory of Markdown and plain-text files as
// journal entries and follows the directory for edits with fsnotify.
//
// Each file maps to one entry keyed by its file:// URI. Re-importing an
// unchanged file is a no-op, so the next index pass only sees real edits.
// Removing a file archives its entry.
package journaldir
