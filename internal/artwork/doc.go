// Package artwork caches one thumbnail image per card on disk. Every
// operation is best-effort: failures are logged and swallowed so artwork
// problems can never fail the registry mutation that triggered them.
package artwork
