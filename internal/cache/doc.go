// Package cache holds the in-memory RepositoryCache used by the content
// repository: one map of file entries keyed by normalized relative path and one
// map of directory listings keyed by normalized directory. Entries are replaced
// wholesale on every re-fetch. Clearing swaps in a fresh snapshot atomically, so
// readers observe either the old maps or the empty ones, never a half-cleared
// state. Per-key locks let backends serialize work on one path without blocking
// unrelated paths.
package cache
