// castclean - asciicast recording cleaner
//
// castclean removes noise output events from asciicast v2 recordings and
// rebases their timestamps to start at zero.
package main

import (
	"os"

	"github.com/ccollicutt/castclean/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
