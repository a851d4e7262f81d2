// Command subweld runs the subtitle bot and its maintenance subcommands.
package main
