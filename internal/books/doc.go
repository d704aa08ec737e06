// Package books is the HTTP client for a volumes search endpoint in the
// Google Books shape.
//
// # Request
//
// Search issues exactly one GET per call with a single q parameter:
//
//	GET {endpoint}?q={url-encoded query}
//
// The query is NFC-normalized and otherwise sent as typed. Requests carry the
// configured User-Agent and can be paced with WithRateLimit; WithTimeout
// bounds each request. There is no retry.
//
// # Errors
//
// A non-2xx reply returns *StatusError, which matches ErrUnexpectedStatus
// with errors.Is. Transport and decode failures are wrapped with %w. A reply
// without items is not an error; Search returns an empty slice.
//
// # Books
//
// Every volumeInfo field is optional. The Display* and *Thumbnail accessors
// return fixed fallback text or placeholder URLs for missing fields, and
// DisplayDescription strips HTML markup the provider sometimes embeds.
package books
