package main

import "github.com/mcoot/roulettegame/internal/cli"

func main() {
	cli.Execute()
}
