// userd is the user management API server.
// It serves a versioned REST API on port 8080 and persists user records in SQLite.
package main

import (
	"github.com/bitswalk/userd/src/userd/core"
)

func main() {
	core.Execute()
}
