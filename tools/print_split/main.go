package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rpgo/mathgen/internal/display"
	"github.com/rpgo/mathgen/internal/split"
	"github.com/rpgo/mathgen/pkg/number"
)

// Prints which side of the train/test boundary each argument falls on under
// every named boundary rule.
//
//	go run ./tools/print_split 5 10/2 5.0 0.25
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s VALUE...", os.Args[0])
	}

	names := split.HashNames()
	partitioners := make([]*split.Partitioner, 0, len(names))
	for _, name := range names {
		hash, err := split.HashByName(name)
		if err != nil {
			log.Fatal(err)
		}
		partitioners = append(partitioners, split.New(hash))
	}

	for _, arg := range os.Args[1:] {
		v, err := parse(arg)
		if err != nil {
			log.Fatalf("%s: %v", arg, err)
		}
		fmt.Printf("%-12s canonical=%-12s", arg, v.Canonical())
		for i, p := range partitioners {
			side, err := p.SideOf(v)
			if err != nil {
				log.Fatalf("%s: %v", arg, err)
			}
			fmt.Printf(" %s=%s", names[i], side)
		}
		fmt.Println()
	}
}

func parse(s string) (number.Rational, error) {
	var num, den int64
	if n, _ := fmt.Sscanf(s, "%d/%d", &num, &den); n == 2 {
		return number.NewRational(num, den)
	}
	return display.ParseDecimal(s)
}
