package main

import "github.com/oit-helpdesk/required-today/cmd"

func main() {
	cmd.Execute()
}
