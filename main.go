package main

import "marktx-backend/cmd"

func main() {
	cmd.Run()
}
