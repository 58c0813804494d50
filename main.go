package main

import (
	"github.com/rm-labs/explorer-sidecar/cmd"
)

func main() {
	cmd.Execute()
}
