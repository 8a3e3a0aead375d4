package main

import "log-power-tracker/internal/cli"

func main() {
	cli.Execute()
}
