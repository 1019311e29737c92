package main

import "github.com/Skotchmaster/storefront/cmd/storefront/commands"

func main() {
	commands.Execute()
}
