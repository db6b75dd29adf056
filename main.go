package main

import "github.com/alhamla/campaign-office/cmd"

func main() {
	cmd.Execute()
}
