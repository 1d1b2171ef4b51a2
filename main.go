package main

import "github.com/taskhive/taskhive/cmd"

func main() {
	cmd.Execute()
}
