package main

import "github.com/alexiusacademia/fabrik/cmd"

func main() {
	cmd.Execute()
}
