// main is the entry point for the maturity CLI.
package main

import (
	"github.com/huangsam/maturity/cmd"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
	iocache.CloseStores()
}
