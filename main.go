package main

import "github.com/chrisdamba/menuar/cmd"

func main() {
	cmd.Execute()
}
