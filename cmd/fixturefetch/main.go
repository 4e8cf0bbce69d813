package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		base = flag.String("base", "https://github.com/PrismarineJS/Anvil-Parser-Test-Files.git", "base repository url")
		ref  = flag.String("ref", "master", "git ref to fetch")
		out  = flag.String("o", "./testdata/fixtures", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}
	if *base == "" {
		panic("base url required")
	}

	if err := os.RemoveAll(*out); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading region fixtures into %s", *out)

	url := fmt.Sprintf("git::%s?ref=%s", *base, *ref)

	if err := get.Get(*out, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading region fixtures into %s", *out)
}
