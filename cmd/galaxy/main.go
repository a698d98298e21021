package main

import "galaxy/internal/cli"

func main() {
	cli.Execute()
}
