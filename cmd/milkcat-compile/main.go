package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jamesainslie/go-milkcat/model"
)

func main() {
	src := flag.String("src", "", "Text model bundle directory (required)")
	dst := flag.String("dst", "", "Output bundle directory (required)")
	compress := flag.Bool("zstd", false, "Write zstd-compressed tables")

	flag.Parse()

	if *src == "" || *dst == "" {
		fmt.Fprintln(os.Stderr, "Usage: milkcat-compile -src DIR -dst DIR [-zstd]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	written, err := model.Compile(*src, *dst, *compress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compiled %d tables into %s: %s\n", len(written), *dst, strings.Join(written, ", "))
}
