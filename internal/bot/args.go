package bot

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/disgoorg/snowflake/v2"
)

var errUnterminatedQuote = errors.New("expected closing quote")

// argScanner walks a raw argument tail word by word. A word starting with a
// double quote extends to the matching closing quote; \" escapes a quote
// inside it.
type argScanner struct {
	input string
	pos   int
}

func (s *argScanner) skipSpace() {
	s.pos = len(s.input) - len(strings.TrimLeftFunc(s.input[s.pos:], unicode.IsSpace))
}

// rest returns the remaining input with surrounding whitespace removed.
func (s *argScanner) rest() string {
	s.skipSpace()
	r := strings.TrimSpace(s.input[s.pos:])
	s.pos = len(s.input)
	return r
}

// next returns the next word, or ok=false at end of input.
func (s *argScanner) next() (word string, ok bool, err error) {
	s.skipSpace()
	if s.pos >= len(s.input) {
		return "", false, nil
	}

	if s.input[s.pos] != '"' {
		start := s.pos
		end := strings.IndexFunc(s.input[start:], unicode.IsSpace)
		if end < 0 {
			end = len(s.input) - start
		}
		s.pos = start + end
		return s.input[start:s.pos], true, nil
	}

	var b strings.Builder
	s.pos++
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch {
		case c == '\\' && s.pos+1 < len(s.input) && s.input[s.pos+1] == '"':
			b.WriteByte('"')
			s.pos += 2
		case c == '"':
			s.pos++
			return b.String(), true, nil
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", false, errUnterminatedQuote
}

// bindArgs binds the raw tail against params.
func bindArgs(params []Param, tail string) (Args, error) {
	args := make(Args, len(params))
	scanner := &argScanner{input: tail}

	for _, p := range params {
		var (
			raw string
			ok  bool
			err error
		)
		if p.Rest {
			raw = scanner.rest()
			ok = raw != ""
		} else {
			raw, ok, err = scanner.next()
			if err != nil {
				return nil, &BadArgumentError{Param: p.Name, Err: err}
			}
		}

		if !ok {
			if p.Required {
				return nil, &MissingRequiredArgumentError{Param: p.Name}
			}
			args[p.Name] = p.Default
			continue
		}

		value, err := convertArg(p.Type, raw)
		if err != nil {
			return nil, &BadArgumentError{Param: p.Name, Value: raw, Err: err}
		}
		args[p.Name] = value
	}

	return args, nil
}

func convertArg(t ParamType, raw string) (any, error) {
	switch t {
	case ParamString:
		return raw, nil
	case ParamInt:
		return strconv.ParseInt(raw, 10, 64)
	case ParamFloat:
		return strconv.ParseFloat(raw, 64)
	case ParamBool:
		return parseBool(raw)
	case ParamUser:
		return parseMention(raw, "<@!", "<@")
	case ParamChannel:
		return parseMention(raw, "<#")
	default:
		return nil, errors.New("unsupported parameter type " + t.String())
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "y", "true", "t", "1", "enable", "on":
		return true, nil
	case "no", "n", "false", "f", "0", "disable", "off":
		return false, nil
	}
	return false, errors.New(raw + " is not a recognised boolean option")
}

// parseMention accepts a raw snowflake or one wrapped in any of the given
// mention prefixes and a closing ">".
func parseMention(raw string, prefixes ...string) (snowflake.ID, error) {
	for _, prefix := range prefixes {
		if strings.HasPrefix(raw, prefix) && strings.HasSuffix(raw, ">") {
			raw = raw[len(prefix) : len(raw)-1]
			break
		}
	}
	return snowflake.Parse(raw)
}
