package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/agbcc-tools/armclean/normalize"
)

const version = "armclean 1.0.0"

var (
	outPath = flag.String("o", "", "Output file (default: stdout).")
	verbose = flag.Bool("v", false, "Print version and exit.")
	strict  = flag.Bool("strict", false, "Treat unresolved branch/load references as fatal.")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if *verbose {
		fmt.Println(version)
		return
	}

	if flag.NArg() != 1 {
		log.Println("Usage: armclean [options] <sourcefile>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)

	src, err := os.ReadFile(inputFile)
	if err != nil {
		log.Fatalf("Couldn't read source file: %v", err)
	}

	file, err := normalize.Pipeline(string(src), inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *strict {
		if n := normalize.CountUnresolved(file); n > 0 {
			log.Fatalf("bad input file: %d unresolved reference(s)", n)
		}
	}

	if err := writeOutput(*outPath, normalize.Emit(file)); err != nil {
		log.Fatalf("Couldn't write output: %v", err)
	}
}

// writeOutput writes text to path, or to stdout when path is empty. A
// non-empty path is written atomically: a temp file in the same directory
// is written and renamed into place, so a crash mid-write never leaves a
// partial file (spec: "no partial-output behaviour").
func writeOutput(path, text string) error {
	if path == "" {
		_, err := fmt.Print(text)
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".armclean-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
