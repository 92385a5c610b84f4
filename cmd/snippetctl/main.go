// Command snippetctl is the offline companion to the server: it lists the
// language and style choices, renders files the way the server renders
// snippets, and creates accounts directly in the database.
package main

import (
	"os"
)

var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
