package main

import (
	"github.com/katalvlaran/papermatch/cmd/matchctl"
)

func main() {
	matchctl.Execute()
}
