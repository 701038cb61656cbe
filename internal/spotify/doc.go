// Package spotify adapts the Spotify Web API into the uniform media
// summaries the card editor consumes. It owns the client-credentials token
// exchange and normalizes the per-type result shapes, including the
// fallback strings used when the catalog omits a field.
package spotify
