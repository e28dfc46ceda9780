// Command calc answers calculus questions from the command line.
//
//	calc integrate x^2 dx from 0 to 5
//	echo "differentiate sin(x)*cos(x)" | calc
//
// With no arguments each line of standard input is one question.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/njchilds90/calcsolve"
)

func main() {
	var (
		examples = flag.Bool("examples", false, "List sample questions and exit")
		asJSON   = flag.Bool("json", false, "Print each result as JSON")
		verbose  = flag.Bool("v", false, "Log extracted queries to stderr")
	)
	flag.Parse()

	if *examples {
		for _, t := range calcsolve.Templates {
			fmt.Printf("%-12s %s\n", t.Label, t.Question)
		}
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	solver := calcsolve.New(calcsolve.WithLogger(logger))

	answer := func(question string) {
		res := solver.Solve(question)
		if *asJSON {
			out, err := json.Marshal(res)
			if err != nil {
				log.Fatal("encode result: ", err)
			}
			fmt.Println(string(out))
			return
		}
		fmt.Println(res)
	}

	if flag.NArg() > 0 {
		answer(strings.Join(flag.Args(), " "))
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !first && !*asJSON {
			fmt.Println()
		}
		first = false
		answer(line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal("read stdin: ", err)
	}
}
