package main

import "github.com/petrarca/trigram-langid/internal/cmd"

func main() {
	cmd.Execute()
}
