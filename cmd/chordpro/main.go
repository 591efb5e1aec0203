package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sukalov/chordbook/internal/chordpro"
	"github.com/sukalov/chordbook/internal/importer/amdm"
)

func main() {
	var (
		transpose  int
		copyChords bool
		format     bool
		importURL  string
		outputFile string
	)

	flag.IntVar(&transpose, "transpose", 0, "Shift all chords by N semitones")
	flag.BoolVar(&copyChords, "copy-chords", false, "Copy first verse/chorus chords into chordless repeats")
	flag.BoolVar(&format, "fmt", false, "Reformat through the parser and serializer")
	flag.StringVar(&importURL, "import", "", "Import a song from an amdm.ru URL instead of reading a file")
	flag.StringVar(&outputFile, "output", "", "Output file name (default: stdout)")
	flag.Parse()

	text, err := input(importURL, flag.Args())
	if err != nil {
		log.Fatalf("Error reading input: %v", err)
	}

	if copyChords {
		text = chordpro.CopyChords(text)
	}
	if transpose != 0 {
		song := chordpro.Parse(text)
		text = chordpro.Format(chordpro.TransposeSong(song, transpose))
	} else if format {
		text = chordpro.Format(chordpro.Parse(text))
	}

	if outputFile == "" {
		fmt.Println(text)
		return
	}
	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		log.Fatalf("Error saving file: %v", err)
	}
	fmt.Printf("Saved to: %s\n", outputFile)
}

// input reads the song text: from amdm.ru with -import, from the file named
// in the arguments, or from stdin.
func input(importURL string, args []string) (string, error) {
	if importURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		result, err := amdm.NewImporter().Import(ctx, importURL)
		if err != nil {
			return "", err
		}
		return result.Text, nil
	}

	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
