package main

import "anime-ringtone/cmd"

func main() {
	cmd.Execute()
}
