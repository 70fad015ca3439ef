package main

import (
	"github.com/labstack/gommon/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
