// clausematch is the command-line interface to a running ClauseMatch API
// server: ingest standard contracts, run hybrid searches, and match user
// articles against the standard corpora.
package main

import (
	"os"

	"github.com/turtacn/ClauseMatch/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
