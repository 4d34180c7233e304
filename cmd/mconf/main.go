/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/mconfdb/mconf/cmd/mconf/cmd"

func main() {
	cmd.Execute()
}
