package main

import "github.com/moxierobots/openmoxie/internal/cli"

func main() {
	cli.Execute()
}
