/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/simplenotes/notes/cmd"

func main() {
	cmd.Execute()
}
