package main

import "assetbot/cmd"

func main() {
	cmd.Execute()
}
