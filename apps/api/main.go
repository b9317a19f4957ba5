package main

import (
	"flag"
	"io"
	"log"
	"os"
)

func main() {
	graph := flag.Bool("graph", false, "print the dependency graph (DOT) before starting")
	flag.Parse()

	var w io.Writer
	if *graph {
		w = os.Stdout
	}
	startWithDig(w)
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
