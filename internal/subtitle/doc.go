// Package subtitle composes SRT subtitle tracks from timed text entries.
package subtitle
