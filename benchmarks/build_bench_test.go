package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/microfsm/definition"
)

// BenchmarkDefinitionBuild measures parsing and building a machine
// from a YAML document of growing size.
func BenchmarkDefinitionBuild(b *testing.B) {
	for _, n := range []int{4, 64} {
		b.Run(fmt.Sprintf("states_%d", n), func(b *testing.B) {
			doc := GenDefinitionYAML(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f, err := definition.Parse(doc)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := definition.Build(f, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
