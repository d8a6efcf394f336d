package params_test

import (
	"fmt"
	"log"

	"github.com/cocosip/go-jp2k/params"
)

// ExampleBuilder_WithCompressionRatios shows layer ordering
func ExampleBuilder_WithCompressionRatios() {
	b, err := params.NewBuilder(64, 32)
	if err != nil {
		log.Fatal(err)
	}
	b, err = b.WithCompressionRatios([]float64{5, 1, 10})
	if err != nil {
		log.Fatal(err)
	}
	cfg := b.Build()
	fmt.Println(cfg.CompressionRatios(), cfg.MaxResolutions(), cfg.NumResolutions())
	// Output:
	// [5 10 1] 6 6
}
