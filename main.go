package main

import "github.com/Builder-Lawyers/builder-admin/cmd"

func main() {
	cmd.Execute()
}
