package main

import "github.com/phux/phishcheck/cmd"

func main() {
	cmd.Execute()
}
