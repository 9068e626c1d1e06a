// main is the entry point for the pulse CLI.
package main

import (
	"github.com/huangsam/pulse/cmd"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
