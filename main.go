package main

import "github.com/SaudiBrother/Audio-checker/cmd"

func main() {
	cmd.Execute()
}
