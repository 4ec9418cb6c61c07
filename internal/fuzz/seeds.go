package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var builtinSeeds = []string{
	"fn [<get_ name>]() {}",
	"[<A B :snake>] [<'a b>]",
	`#[doc = "x"] struct [<S env!("HOME")>];`,
	"macro_rules! m { ($x:ident) => { [<$x _suffix>] } }",
	"«[<a b>]» :: [<>] [< ]",
	"/// doc\n[<r#raw x>]",
	"[<ß :upper>]",
}

func addSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	// golden-корпус драйвера
	root := filepath.Join("..", "driver", "testdata")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".rs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if len(src) > maxSeedBytes {
			src = src[:maxSeedBytes]
		}
		f.Add(src)
		return nil
	})
}
