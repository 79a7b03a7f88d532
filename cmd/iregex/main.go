// Command iregex compiles a pattern and matches it, analyzes it or exports
// its automata.
//
// Usage:
//
//	iregex match   -pattern '(a+)b' -input xaab -input ab
//	iregex analyze -pattern '(a+)b'
//	iregex dot     -pattern '(a+)b' -output automata.dot
//	iregex json    -pattern '(a+)b' -output automata.json
//	iregex gen     -pattern '(a+)b' -package patterns -name AB -output ab.go
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KromDaniel/iregex/pkg/iregex"
)

// arrayFlags collects the values of a repeatable flag.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

var commands = []string{"match", "analyze", "dot", "json", "gen"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: iregex <%s> [flags]\n", strings.Join(commands, "|"))
}

// run executes one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, args := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	pattern := fs.String("pattern", "", "Pattern to compile")
	snapshot := fs.String("snapshot", "", "Load automata from a JSON snapshot instead of -pattern")
	maxStates := fs.Int("max-states", 0, "Max states per automaton (0 = default, negative = unlimited)")
	maxSteps := fs.Int("max-steps", 0, "Max configurations visited per match (0 = unlimited)")
	verbose := fs.Bool("verbose", false, "Log compilation steps to stderr")
	output := fs.String("output", "", "Output file (default stdout)")
	var inputs arrayFlags
	all := false
	pkg, name := "", ""
	switch cmd {
	case "match":
		fs.Var(&inputs, "input", "Input word (repeatable, default: lines of stdin)")
		fs.BoolVar(&all, "all", false, "Report every non-overlapping match")
	case "gen":
		fs.StringVar(&pkg, "package", "main", "Package of the generated file")
		fs.StringVar(&name, "name", "", "Exported variable name")
	case "analyze", "dot", "json":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := iregex.Options{
		MaxStates: *maxStates,
		MaxSteps:  *maxSteps,
		Verbose:   *verbose,
		LogOutput: stderr,
	}

	var re *iregex.Regexp
	if cmd != "analyze" {
		var err error
		if re, err = load(*pattern, *snapshot, opts); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	out := stdout
	var file *os.File
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		file, out = f, f
	}

	err := func() error {
		switch cmd {
		case "analyze":
			return analyze(out, *pattern)
		case "match":
			if len(inputs) == 0 {
				scanner := bufio.NewScanner(stdin)
				for scanner.Scan() {
					inputs = append(inputs, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}
			return match(out, re, inputs, all)
		case "dot":
			return re.WriteDOT(out)
		case "json":
			return writeJSON(out, re)
		case "gen":
			if name == "" {
				return errors.New("-name is required")
			}
			return re.GenerateGo(out, pkg, name)
		}
		return nil
	}()
	if file != nil {
		// A failed close can lose buffered output.
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", *output, cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func load(pattern, snapshot string, opts iregex.Options) (*iregex.Regexp, error) {
	switch {
	case pattern != "" && snapshot != "":
		return nil, errors.New("-pattern and -snapshot are exclusive")
	case snapshot != "":
		data, err := os.ReadFile(snapshot)
		if err != nil {
			return nil, err
		}
		return iregex.LoadJSON(data, opts)
	case pattern != "":
		return iregex.CompilePattern(pattern, opts)
	}
	return nil, errors.New("-pattern or -snapshot is required")
}

func analyze(w io.Writer, pattern string) error {
	if pattern == "" {
		return errors.New("-pattern is required")
	}
	result, err := iregex.Analyze(pattern)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeJSON(w io.Writer, re *iregex.Regexp) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(re.Snapshot())
}

// match prints one line per input with its rootmatch, followed by one
// indented line per capture group.
func match(w io.Writer, re *iregex.Regexp, inputs []string, all bool) error {
	labels := re.Labels()
	for _, input := range inputs {
		word := []rune(input)
		var rms []iregex.Rootmatch
		if all {
			var err error
			if rms, err = re.FindAll(word, -1); err != nil {
				return err
			}
		} else {
			rm, err := re.Rootmatch(word)
			if err != nil {
				return err
			}
			if rm.Matched {
				rms = []iregex.Rootmatch{rm}
			}
		}
		if len(rms) == 0 {
			fmt.Fprintf(w, "%q: no match\n", input)
			continue
		}
		for _, rm := range rms {
			subs, err := re.Submatch(word, rm)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%q: %v %q\n", input, rm, string(word[rm.Start():rm.End()]))
			for _, l := range labels {
				g := subs[l]
				if !g.Matched {
					fmt.Fprintf(w, "  group %d: %v\n", l, g)
					continue
				}
				fmt.Fprintf(w, "  group %d: %v %q\n", l, g, string(word[g.Start:g.End]))
			}
		}
	}
	return nil
}
