package main

import "github.com/goblinsan/gh-project-fields/cmd/gh-project-fields/commands"

func main() {
	commands.Execute()
}
