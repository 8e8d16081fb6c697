package main

import (
	"github.com/jakimhartford/notion-sync/cmd"
)

func main() {
	cmd.Execute()
}
