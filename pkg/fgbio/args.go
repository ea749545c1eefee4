package fgbio

import (
	"fmt"
	"regexp"
	"strings"
)

// Param is a single named option for an fgbio tool invocation. Names use
// underscore-separated words and are mapped to hyphenated command-line
// flags when the argument vector is built.
type Param struct {
	Name  string
	Value any
}

// Params is the ordered parameter list for one tool invocation. Handlers
// assemble these explicitly per tool so that flag names are fixed at the
// call site rather than flowing in from arbitrary request keys.
type Params []Param

// BuildArgs turns a tool name and its parameters into the argument vector
// for the fgbio executable. The mapping is deterministic given the
// parameter order:
//   - nil values are omitted
//   - boolean false is omitted, boolean true emits a bare --flag
//   - slice values repeat the flag once per element
//   - everything else emits --flag value with the value stringified
func BuildArgs(tool string, params Params) []string {
	args := []string{tool}
	for _, p := range params {
		flag := "--" + strings.ReplaceAll(p.Name, "_", "-")
		switch v := p.Value.(type) {
		case nil:
		case bool:
			if v {
				args = append(args, flag)
			}
		case []string:
			for _, item := range v {
				args = append(args, flag, item)
			}
		case []any:
			for _, item := range v {
				args = append(args, flag, fmt.Sprint(item))
			}
		default:
			args = append(args, flag, fmt.Sprint(v))
		}
	}
	return args
}

var plainArg = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// quoteCommand reconstructs a copy-pasteable shell command from an argv.
func quoteCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if plainArg.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
