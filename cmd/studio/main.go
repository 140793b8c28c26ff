package main

import "github.com/aplusgen/aplus/cmd/studio/commands"

func main() {
	commands.Execute()
}
