package main

import "github.com/vibast-solutions/ms-go-autoapply/cmd"

func main() {
	cmd.Execute()
}
