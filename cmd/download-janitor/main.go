package main

import (
	"github.com/vertextoedge/download-janitor/internal/cli"
)

func main() {
	cli.Execute()
}
