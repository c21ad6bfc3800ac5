// besessen watches a source tree and rebuilds TypeScript, LESS and site
// templates as they change.
package main

import (
	"os"

	"github.com/skytreader/besessen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
