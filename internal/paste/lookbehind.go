package paste

import "splice/internal/token"

// lookbehind summarizes the punctuation immediately before the current token.
type lookbehind uint8

const (
	lookOther lookbehind = iota
	lookJointColon
	lookDoubleColon
	lookPound
	lookPoundBang
)

func (l lookbehind) String() string {
	switch l {
	case lookJointColon:
		return "JointColon"
	case lookDoubleColon:
		return "DoubleColon"
	case lookPound:
		return "Pound"
	case lookPoundBang:
		return "PoundBang"
	default:
		return "Other"
	}
}

// next returns the state after seeing the punctuation p.
func (l lookbehind) next(p token.Tree) lookbehind {
	switch p.Char() {
	case ':':
		if l == lookJointColon {
			return lookDoubleColon
		}
		if p.Spacing == token.Joint {
			return lookJointColon
		}
	case '#':
		return lookPound
	case '!':
		if l == lookPound {
			return lookPoundBang
		}
	}
	return lookOther
}

// attribute reports whether the state is `#` or `#!`.
func (l lookbehind) attribute() bool {
	return l == lookPound || l == lookPoundBang
}
