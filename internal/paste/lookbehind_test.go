package paste

import (
	"testing"

	"splice/internal/lexer"
)

func TestLookbehindTransitions(t *testing.T) {
	tests := []struct {
		src  string
		want lookbehind
	}{
		{":", lookOther},
		{"::", lookDoubleColon},
		{": :", lookOther},
		{":::", lookOther},
		{"::::", lookDoubleColon},
		{"#", lookPound},
		{"#!", lookPoundBang},
		{"# !", lookPoundBang},
		{"!", lookOther},
		{"#!!", lookOther},
		{"::#", lookPound},
		{"->", lookOther},
	}
	for _, tt := range tests {
		_, stream := lexer.ParseString("t.rs", tt.src, lexer.Options{})
		state := lookOther
		for _, p := range stream {
			state = state.next(p)
		}
		if state != tt.want {
			t.Errorf("%q: got %v, want %v", tt.src, state, tt.want)
		}
	}
}
