package main

import "github.com/forPelevin/hlgen/internal/cli"

func main() {
	cli.Main()
}
