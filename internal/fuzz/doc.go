// Package fuzztests holds Go fuzz harnesses for the lexer and the paste
// expander. They check robustness only: no input may panic, and whatever
// the expander prints must lex again.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
