package main

import "github.com/dhcgn/mail-triage/cmd"

func main() {
	cmd.Execute()
}
