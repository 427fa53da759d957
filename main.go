package main

import "lore-sync/cmd"

func main() {
	cmd.Execute()
}
