package main

import "github.com/soulgarden/aori-client/cmd"

func main() {
	cmd.Execute()
}
