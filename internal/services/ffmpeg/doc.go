// Package ffmpeg wraps the ffmpeg binary for the two transcoder operations
// the pipeline needs: extracting speech-recognition audio and burning a
// subtitle track into a video.
package ffmpeg
