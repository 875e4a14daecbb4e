package engine

import (
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// preprocessSource rewrites druse Lisp into something zygomys accepts:
//
//   - :keyword becomes the string "__kw_keyword", so keywords never collide
//     with user variables of the same name;
//   - kebab-case identifiers become snake_case (zygomys reads a hyphen as
//     subtraction), so point-groups calls point_groups;
//   - ; comments become // comments.
//
// String literals (double quotes or backticks) pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			end := skipString(source, i)
			out.WriteString(source[i:end])
			i = end

		case c == ';':
			j := i
			for j < len(source) && source[j] == ';' {
				j++
			}
			end := strings.IndexByte(source[j:], '\n')
			if end < 0 {
				end = len(source) - j
			}
			out.WriteString("//")
			out.WriteString(source[j : j+end])
			i = j + end

		case c == ':' && i+1 < len(source) && source[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKWChar(source[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(source[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipString returns the index just past the string literal opening at i.
// Backslash escapes apply only inside double quotes. An unterminated
// literal runs to the end of src.
func skipString(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch {
		case q == '"' && src[j] == '\\':
			j++
		case src[j] == q:
			return j + 1
		}
	}
	return len(src)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// keyword reports the name of a preprocessed :keyword argument.
func keyword(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs is a builtin's argument list split into keyword values and
// positional arguments.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args. A trailing keyword with no value maps to nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	pa := kwArgs{kw: map[string]zygo.Sexp{}}
	for i := 0; i < len(args); i++ {
		name, ok := keyword(args[i])
		switch {
		case !ok:
			pa.positional = append(pa.positional, args[i])
		case i+1 < len(args):
			pa.kw[name] = args[i+1]
			i++
		default:
			pa.kw[name] = zygo.SexpNull
		}
	}
	return pa
}
