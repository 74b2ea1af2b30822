package main

import (
	"github.com/dreamerjackson/torrentspider/cmd"
)

func main() {
	cmd.Execute()
}
