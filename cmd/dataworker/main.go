package main

import (
	"github.com/across-protocol/dataworker/cli"
)

func main() {
	cli.Execute()
}
