package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const banner = `
  ____                   ____  _   _    _
 |  _ \ _   _ _ __   ___|  _ \| \ | |  / \
 | | | | | | | '_ \ / _ \ | | |  \| | / _ \
 | |_| | |_| | |_) |  __/ |_| | |\  |/ ___ \
 |____/ \__,_| .__/ \___|____/|_| \_/_/   \_\
             |_|
        Near-duplicate photo finder for digiKam
`

func printBanner(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintln(w, cyan(banner))
}
