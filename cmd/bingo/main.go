package main

import "github.com/mcoot/musicbingo/internal/cli"

func main() {
	cli.Execute()
}
