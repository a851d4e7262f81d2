// Package telegram implements the chat transport against the Telegram Bot
// API: a JSON method client, file resolution and download, multipart video
// upload, and a getUpdates long-poll loop.
package telegram
