// Package content turns Markdown files served by the repository into the typed
// records the API returns. Each file is split into YAML frontmatter and a body,
// the frontmatter is decoded into model structs, and Markdown fields are
// rendered to sanitized HTML. Blog loading is best effort: a broken post is
// logged and skipped. Bio loading fails on the first malformed section.
package content
