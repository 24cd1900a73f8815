package main

import "github.com/mhdinshadk/Chat-Bot/internal/commands"

func main() {
	commands.Execute()
}
