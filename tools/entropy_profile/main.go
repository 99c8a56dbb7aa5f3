package main

import (
	"fmt"
	"log"
	"math"
	"math/big"
	"math/rand"
	"os"
	"strconv"

	"github.com/rpgo/mathgen/internal/sample"
)

const draws = 2000

// Prints how large sampled values get as the entropy budget grows.
//
//	go run ./tools/entropy_profile [integer|non_integer_decimal|non_integer_rational] [max bits]
func main() {
	kindName, maxEntropy := "integer", 12.0
	if len(os.Args) > 1 {
		kindName = os.Args[1]
	}
	if len(os.Args) > 2 {
		v, err := strconv.ParseFloat(os.Args[2], 64)
		if err != nil {
			log.Fatalf("max bits: %v", err)
		}
		maxEntropy = v
	}

	kind, err := sample.ParseKind(kindName)
	if err != nil {
		log.Fatal(err)
	}
	s := sample.New(rand.New(rand.NewSource(1)))

	fmt.Printf("%-8s %-10s %-12s %s\n", "entropy", "mean log2", "max |v|", "distinct")
	for e := 1.0; e <= maxEntropy; e++ {
		var sum float64
		maxAbs := new(big.Rat)
		seen := map[string]bool{}
		for i := 0; i < draws; i++ {
			v, err := s.Sample(e, true, kind)
			if err != nil {
				log.Fatalf("entropy %.0f: %v", e, err)
			}
			f, _ := v.Abs().Rat().Float64()
			sum += math.Log2(1 + f)
			if v.Abs().Rat().Cmp(maxAbs) > 0 {
				maxAbs = v.Abs().Rat()
			}
			seen[v.Canonical()] = true
		}
		fmt.Printf("%-8.0f %-10.3f %-12s %d\n", e, sum/draws, maxAbs.RatString(), len(seen))
	}
}
