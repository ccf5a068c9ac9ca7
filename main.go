package main

import "github.com/josexy/sockswire/cmd"

func main() {
	cmd.Execute()
}
