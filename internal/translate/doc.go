// Package translate turns recognized speech segments into target-language
// subtitle text. Per-segment failures degrade to the source text so the
// subtitle track never loses a segment.
package translate
