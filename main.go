package main

import "github.com/jsphweid/ngramdex/cmd"

func main() {
	cmd.Execute()
}
