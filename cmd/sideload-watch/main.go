package main

import "sideload-watch/internal/cli"

func main() {
	cli.Execute()
}
