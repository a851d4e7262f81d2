// Package bot routes chat transport updates to the processing pipeline and
// serves the settings menus.
package bot
