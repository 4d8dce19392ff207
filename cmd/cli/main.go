package main

import "github.com/lendwatch/lendctl/pkg/cli"

func main() {
	cli.Execute()
}
