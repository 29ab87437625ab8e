// Command pbchat is a terminal front end for the chat client: an
// interactive conversation loop, a connectivity probe, and settings
// readback.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
