// Package repository is the content source behind every loader. It normalizes
// caller paths (rejecting traversal before any I/O), then delegates to exactly
// one backend chosen at construction: a local directory compared by mtime, or a
// GitHub repository revalidated with conditional requests once the refresh
// interval elapses. Both backends share one cache.Store that ClearCache drops
// atomically.
package repository
