package main

import (
	"cutai-stt/cmd/cutai/cmd"
)

func main() {
	cmd.Execute()
}
