package main

import "bookit/cmd/api/commands"

func main() {
	commands.Execute()
}
