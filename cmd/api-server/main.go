package main

import "bloghub/cmd/api-server/command"

func main() {
	command.Execute()
}
