package main

import "github.com/oshokin/central-publisher/cmd/central-publisher/cmd"

func main() {
	cmd.Execute()
}
