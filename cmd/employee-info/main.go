package main

import "github.com/vladimirs1981/employee-info/internal/cli"

func main() {
	cli.Execute()
}
