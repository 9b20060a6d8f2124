package main

import (
	"github.com/willckim/Purelytics/pkg/cli"
)

func main() {
	cli.Execute()
}
