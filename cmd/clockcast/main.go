package main

import "github.com/holoplot/clockcast/cmd"

func main() {
	cmd.Execute()
}
