package main

import "deskbox/cmd"

func main() {
	cmd.Execute()
}
