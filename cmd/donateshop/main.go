package main

import "github.com/mcoot/donateshop/internal/cli"

func main() {
	cli.Execute()
}
