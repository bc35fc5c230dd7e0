package main

import "goldrates/internal/cli"

func main() {
	cli.Execute()
}
