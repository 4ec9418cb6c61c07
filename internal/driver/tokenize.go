package driver

import (
	"fmt"

	"splice/internal/diag"
	"splice/internal/lexer"
	"splice/internal/source"
	"splice/internal/token"
)

// TokenizeResult is the lexer's view of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Tree    token.Stream
	Bag     *diag.Bag
}

// Tokenize lexes path and nests its tokens. Lexer and delimiter problems go
// to the returned Bag; only I/O failures are errors.
func Tokenize(path string, maxDiagnostics int, docComments bool) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	opts := lexer.Options{Reporter: diag.BagReporter{Bag: bag}, DocComments: docComments}

	tokens := lexer.New(file, opts).All()
	tree := lexer.Build(tokens, opts)
	return &TokenizeResult{FileSet: fs, File: file, Tokens: tokens, Tree: tree, Bag: bag}, nil
}
