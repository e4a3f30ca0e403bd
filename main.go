package main

import (
	"github.com/dwest77a/stac-harvester/cmd"
	"github.com/dwest77a/stac-harvester/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
