package main

import "spacetraveling/internal/cli"

func main() {
	cli.Execute()
}
