// Package transport abstracts the chat transport the bot runs over:
// resolving and downloading user-supplied files and sending messages and
// media back. Concrete implementations live in subpackages.
package transport
