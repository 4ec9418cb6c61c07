// Package format prints token streams back to source text.
//
// Назначение: печать token.Stream после раскрытия paste-операций.
// Не делает: форматирования по смыслу кода, сохранения исходных пробелов.
// Зависимости: internal/token, internal/lexer (для проверки round-trip).
package format
