// userctl is the command-line client for the userd API server.
package main

import "github.com/bitswalk/userd/src/userctl/internal/cmd"

func main() {
	cmd.Execute()
}
