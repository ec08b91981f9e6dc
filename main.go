package main

import "github.com/weatherbot/weatherbot/cmd"

func main() {
	cmd.Execute()
}
