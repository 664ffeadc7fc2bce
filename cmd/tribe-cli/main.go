package main

import "github.com/pandodao/rewardtribe/cmd/tribe-cli/cmd"

func main() {
	cmd.Execute()
}
