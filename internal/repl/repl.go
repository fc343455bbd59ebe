package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"patma/internal/ast"
	"patma/internal/evaluator"
	"patma/internal/lexer"
	"patma/internal/object"
	"patma/internal/parser"
)

const PROMPT = ">> "

// Start reads lines until EOF. `match <pattern>` installs the active
// pattern; any other line is decoded as a JSON value and matched against it.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	e := evaluator.New()
	var active ast.Pattern

	for {
		fmt.Fprintf(out, PROMPT)
		scanned := scanner.Scan()
		if !scanned {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if src, ok := strings.CutPrefix(line, "match "); ok {
			l := lexer.New(src)
			p := parser.New(l, src)
			pat := p.ParsePattern()
			if len(p.Errors()) != 0 {
				printParserErrors(out, p.Errors())
				continue
			}
			active = pat
			fmt.Fprintf(out, "pattern set: %s\n", active.String())
			continue
		}

		if active == nil {
			io.WriteString(out, "no active pattern; use: match <pattern>\n")
			continue
		}

		value, err := object.FromJSON([]byte(line))
		if err != nil {
			fmt.Fprintf(out, "invalid JSON value: %v\n", err)
			continue
		}

		env, ok, err := e.Match(active, value)
		if err != nil {
			fmt.Fprintf(out, "match error: %v\n", err)
			continue
		}
		if !ok {
			io.WriteString(out, "no match\n")
			continue
		}
		io.WriteString(out, env.Inspect())
		io.WriteString(out, "\n")
	}
}

func printParserErrors(out io.Writer, errors []string) {
	io.WriteString(out, "that pattern did not parse:\n")
	for _, msg := range errors {
		io.WriteString(out, "\t"+msg+"\n")
	}
}
