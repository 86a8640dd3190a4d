package main

import "github.com/hexgrave/padctl/cmd"

func main() {
	cmd.Execute()
}
