package main

import (
	"github.com/RichelynScott/claude-code-project-index/cmd"
)

func main() {
	cmd.Execute()
}
