// Package job defines the per-video processing job and its lifecycle stages.
package job
