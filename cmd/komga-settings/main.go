package main

import "github.com/oshokin/komga-settings/cmd/komga-settings/cmd"

func main() {
	cmd.Execute()
}
