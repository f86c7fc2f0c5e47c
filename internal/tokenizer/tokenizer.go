package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrUnclosedQuote  = errors.New("no closing quotation")
	ErrDanglingEscape = errors.New("no escaped character")
)

// ParseError описывает некорректное экранирование или кавычки во входной строке.
type ParseError struct {
	Input string
	Pos   int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
}

func (e *ParseError) Unwrap() error { return e.Err }

type parseState int

const (
	stateOutside parseState = iota
	stateSingleQuote
	stateDoubleQuote
)

// Tokenize разбивает строку на слова по правилам POSIX shell (без подстановок).
// Пустая строка или строка из пробелов дает пустой срез без ошибки.
func Tokenize(raw string) ([]string, error) {
	tokens := []string{}
	var buf strings.Builder

	state := stateOutside
	inToken := false
	escaping := false
	quoteStart := 0

	for i := 0; i < len(raw); {
		// part хранит исходные байты руны: некорректный UTF-8 копируется без замены на U+FFFD
		ch, size := utf8.DecodeRuneInString(raw[i:])
		pos, part := i, raw[i:i+size]
		i += size

		switch state {
		case stateOutside:
			if escaping {
				buf.WriteString(part)
				escaping = false
				continue
			}
			switch {
			case unicode.IsSpace(ch):
				if inToken {
					tokens = append(tokens, buf.String())
					buf.Reset()
					inToken = false
				}
			case ch == '\'':
				state, inToken, quoteStart = stateSingleQuote, true, pos
			case ch == '"':
				state, inToken, quoteStart = stateDoubleQuote, true, pos
			case ch == '\\':
				escaping, inToken = true, true
			default:
				buf.WriteString(part)
				inToken = true
			}

		case stateSingleQuote:
			if ch == '\'' {
				state = stateOutside
				continue
			}
			buf.WriteString(part)

		case stateDoubleQuote:
			if escaping {
				// внутри двойных кавычек экранируются только кавычка и обратный слэш
				if ch != '"' && ch != '\\' {
					buf.WriteRune('\\')
				}
				buf.WriteString(part)
				escaping = false
				continue
			}
			switch ch {
			case '"':
				state = stateOutside
			case '\\':
				escaping = true
			default:
				buf.WriteString(part)
			}
		}
	}

	if state != stateOutside {
		return nil, &ParseError{Input: raw, Pos: quoteStart, Err: ErrUnclosedQuote}
	}
	if escaping {
		return nil, &ParseError{Input: raw, Pos: len(raw), Err: ErrDanglingEscape}
	}
	if inToken {
		tokens = append(tokens, buf.String())
	}
	return tokens, nil
}

// Join собирает строку, которую Tokenize разберет обратно в те же токены.
func Join(tokens []string) string {
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		quoted = append(quoted, Quote(t))
	}
	return strings.Join(quoted, " ")
}

// Quote возвращает токен в одинарных кавычках, если в нем есть небезопасные символы.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, isUnsafe) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isUnsafe(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
		return false
	}
	return !strings.ContainsRune("@%+=:,./_-", r)
}
