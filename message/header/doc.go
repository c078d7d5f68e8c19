// Package header provides the ordered header field storage used by every
// entity of a message. Fields keep the order and case they were declared in,
// duplicates are allowed, and lookups are case-insensitive.
//
// On output, a Header can be rearranged with Ordered() and is written with
// WriteTo(), which folds long lines with a FoldEncoding and turns non-ASCII
// unstructured field bodies into RFC 2047 encoded words.
package header
