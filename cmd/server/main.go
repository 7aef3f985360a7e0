package main

import "ReferralHub/cmd/server/cmd"

func main() {
	cmd.Execute()
}
