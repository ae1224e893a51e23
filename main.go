package main

import "github.com/ColbyCorcoran/Lyra-sub014/cmd"

func main() {
	cmd.Execute()
}
