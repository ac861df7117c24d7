package main

import "github.com/twiced-technology-gmbh/taskcal/cmd"

func main() {
	cmd.Execute()
}
