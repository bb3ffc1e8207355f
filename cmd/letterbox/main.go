package main

import "letterbox/cmd/letterbox/cmd"

func main() {
	cmd.Execute()
}
