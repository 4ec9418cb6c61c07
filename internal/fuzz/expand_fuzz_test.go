package fuzztests

import (
	"errors"
	"testing"

	"splice/internal/diag"
	"splice/internal/format"
	"splice/internal/lexer"
	"splice/internal/paste"
	"splice/internal/source"
)

const maxFuzzInput = 1 << 16

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func FuzzLexer(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rs", clamp(input)))
		opts := lexer.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(64)}, DocComments: true}
		lexer.Build(lexer.New(file, opts).All(), opts)
	})
}

func FuzzExpand(f *testing.F) {
	addSeeds(f)
	lookup := func(name string) (string, bool) {
		if name == "HOME" {
			return "/home/fuzz", true
		}
		return "", false
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rs", clamp(input)))
		bag := diag.NewBag(64)
		opts := lexer.Options{Reporter: diag.BagReporter{Bag: bag}, DocComments: true}
		stream := lexer.Build(lexer.New(file, opts).All(), opts)

		out, err := paste.NewExpander(paste.Options{LookupEnv: lookup}).Expand(stream)
		if err != nil {
			var pe *paste.Error
			if !errors.As(err, &pe) {
				t.Fatalf("expander returned %T: %v", err, err)
			}
			return
		}
		if bag.HasErrors() {
			return
		}
		printed := format.Bytes(out, format.Options{})
		again := diag.NewBag(64)
		lexer.ParseString("printed.rs", string(printed), lexer.Options{Reporter: diag.BagReporter{Bag: again}, DocComments: true})
		if again.HasErrors() {
			t.Fatalf("printed output does not lex:\n%s\n%v", printed, again.Items())
		}
	})
}
