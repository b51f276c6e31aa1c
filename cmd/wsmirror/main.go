package main

import "github.com/wsmirror/wsmirror/cmd/wsmirror/commands"

func main() {
	commands.Execute()
}
