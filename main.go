package main

import "nathanbeddoewebdev/skyglass/cmd"

func main() {
	cmd.Execute()
}
