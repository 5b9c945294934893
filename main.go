package main

import "github.com/Tiliavir/focus-streak-tracker/cmd"

func main() {
	cmd.Execute()
}
