package main

import "github.com/frahmantamala/pos-platform/cmd"

func main() {
	cmd.Execute()
}
