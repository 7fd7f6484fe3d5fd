package main

import "github.com/andrescamacho/hostelsim-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
