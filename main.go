package main

import "github.com/brogergvhs/wikidict/cmd"

func main() {
	cmd.Execute()
}
