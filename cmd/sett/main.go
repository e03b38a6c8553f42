// sett - tartan threadcount parser and fabric renderer
//
// sett turns a threadcount such as "R18 K12 B6" into a woven tartan image,
// looks up named tartans and recovers threadcounts from images.
package main

import (
	"os"

	"github.com/jmylchreest/sett/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
