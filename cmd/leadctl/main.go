package main

import "leadfunnel/internal/leadctl"

func main() {
	leadctl.Main()
}
