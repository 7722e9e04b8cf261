package main

import "github.com/vitalia-app/vitalia/cmd"

func main() {
	cmd.Execute()
}
