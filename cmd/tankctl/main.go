package main

import (
	"github.com/avolosh/tankarena-go/internal/cli"
)

func main() {
	cli.Execute()
}
