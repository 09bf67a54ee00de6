package main

import "github.com/shouni/go-vc-mapping/cmd"

func main() {
	cmd.Execute()
}
