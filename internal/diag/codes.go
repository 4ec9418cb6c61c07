package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005
	LexBadLifetime              Code = 1006
	LexBadRawString             Code = 1007

	// Token-tree construction
	SynInfo                Code = 2000
	SynUnclosedDelimiter   Code = 2001
	SynUnexpectedDelimiter Code = 2002
	SynMismatchedDelimiter Code = 2003

	// Paste expansion
	PasteInfo               Code = 3000
	PasteMalformed          Code = 3001
	PasteUnexpectedToken    Code = 3002
	PasteUnsupportedLiteral Code = 3003
	PasteDanglingModifier   Code = 3004
	PasteUnknownModifier    Code = 3005
	PasteDuplicateLifetime  Code = 3006
	PasteEnvMissing         Code = 3007
	PasteEnvArgument        Code = 3008
	PasteInvalidIdent       Code = 3009
	PastePastedDoc          Code = 3010

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	CfgInfo            Code = 5000
	CfgInvalid         Code = 5001
	CfgVersionMismatch Code = 5002
	CfgBadPattern      Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid number literal",
		LexUnterminatedChar:         "Unterminated character literal",
		LexBadLifetime:              "Invalid lifetime or label",
		LexBadRawString:             "Invalid raw string literal",
		SynInfo:                     "Token tree information",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynUnexpectedDelimiter:      "Unexpected closing delimiter",
		SynMismatchedDelimiter:      "Mismatched closing delimiter",
		PasteInfo:                   "Paste information",
		PasteMalformed:              "Malformed paste operation",
		PasteUnexpectedToken:        "Unexpected token in paste operation",
		PasteUnsupportedLiteral:     "Unsupported literal in paste operation",
		PasteDanglingModifier:       "Modifier without a segment",
		PasteUnknownModifier:        "Unsupported case modifier",
		PasteDuplicateLifetime:      "Duplicate lifetime marker",
		PasteEnvMissing:             "Environment variable not set",
		PasteEnvArgument:            "Malformed env! argument",
		PasteInvalidIdent:           "Pasted text is not a valid identifier",
		PastePastedDoc:              "Pasted doc attributes are reserved",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		CfgInfo:                     "Configuration information",
		CfgInvalid:                  "Invalid configuration",
		CfgVersionMismatch:          "Tool version does not satisfy the project constraint",
		CfgBadPattern:               "Invalid file pattern",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PST%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
