// Package main is the entry point for the zohosync operator CLI.
package main

import (
	"os"

	"github.com/itsyosefali/zoho-integration/cmd/zohosync/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
