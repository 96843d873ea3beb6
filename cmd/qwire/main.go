// qwire converts flat key=value text to and from structured formats.
//
// The default direction reads a flat document and renders it as flat
// (normalized), JSON or YAML. With --encode the input is a JSON or YAML
// object whose values are scalars or lists of scalars, and the output is
// flat text. With -i an interactive explorer parses the document live as
// it is typed.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/flatwire/flatwire/query"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		encode      bool
		format      string
		strict      bool
		escaped     bool
		interactive bool
		verbose     bool
	)

	flags := pflag.NewFlagSet("qwire", pflag.ContinueOnError)
	flags.BoolVar(&encode, "encode", false, "treat input as a JSON/YAML object and emit flat text")
	flags.StringVarP(&format, "format", "f", "flat", "output format: flat, json or yaml")
	flags.BoolVar(&strict, "strict", false, "fail when a key carries more than one value")
	flags.BoolVar(&escaped, "escaped", false, "apply URL escaping rules to tokens")
	flags.BoolVarP(&interactive, "interactive", "i", false, "explore a document in a live TUI")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log processing steps to stderr")
	flags.BoolP("help", "h", false, "show help")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flags)
			return nil
		}
		return err
	}
	if help, _ := flags.GetBool("help"); help {
		printHelp(flags)
		return nil
	}

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = dev
		defer logger.Sync() //nolint:errcheck
	}

	if interactive {
		return runInteractive(escaped)
	}

	input, err := readInput(flags.Args())
	if err != nil {
		return err
	}

	if encode {
		return encodeInput(input, escaped, logger)
	}
	return decodeInput(input, format, strict, escaped, logger)
}

// readInput takes the document from the positional arguments, joined with
// '&' so `qwire a=1 b=2` works, or from stdin when piped.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "&"), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no input; pass a document as an argument or pipe one in")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func decodeInput(input, format string, strict, escaped bool, logger *zap.Logger) error {
	opts := query.DecodeOptions{}
	if escaped {
		opts.Unescape = url.QueryUnescape
	}

	var doc map[string][]string
	if err := query.UnmarshalWith([]byte(input), &doc, opts); err != nil {
		return err
	}
	logger.Debug("parsed input", zap.Int("keys", len(doc)))

	if strict {
		for k, vals := range doc {
			if len(vals) > 1 {
				return fmt.Errorf("strict: key %q carries %d values", k, len(vals))
			}
		}
	}

	out, err := renderDoc(doc, format, escaped)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// renderDoc turns parsed fields back into text in the requested format.
// Flat output is normalized: keys sorted, values in arrival order.
func renderDoc(doc map[string][]string, format string, escaped bool) (string, error) {
	switch format {
	case "flat":
		opts := query.EncodeOptions{}
		if escaped {
			opts.Escape = url.QueryEscape
		}
		data, err := query.MarshalWith(doc, opts)
		return string(data), err

	case "json":
		data, err := json.MarshalIndent(collapse(doc), "", "  ")
		return string(data), err

	case "yaml":
		data, err := yaml.Marshal(collapse(doc))
		return strings.TrimRight(string(data), "\n"), err

	default:
		return "", fmt.Errorf("unknown format %q (want flat, json or yaml)", format)
	}
}

// collapse folds single-value lists to bare scalars so structured output
// reads naturally.
func collapse(doc map[string][]string) map[string]any {
	out := make(map[string]any, len(doc))
	for k, vals := range doc {
		if len(vals) == 1 {
			out[k] = vals[0]
		} else {
			out[k] = vals
		}
	}
	return out
}

func encodeInput(input string, escaped bool, logger *zap.Logger) error {
	// YAML is a JSON superset, so one parser covers both input formats.
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		return fmt.Errorf("parse structured input: %w", err)
	}

	flat := make(map[string][]string, len(doc))
	for k, v := range doc {
		vals, err := flattenValue(v)
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		flat[k] = vals
	}
	logger.Debug("flattened document", zap.Int("keys", len(flat)))

	opts := query.EncodeOptions{}
	if escaped {
		opts.Escape = url.QueryEscape
	}
	data, err := query.MarshalWith(flat, opts)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func flattenValue(v any) ([]string, error) {
	if list, ok := v.([]any); ok {
		vals := make([]string, 0, len(list))
		for _, item := range list {
			s, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			vals = append(vals, s)
		}
		return vals, nil
	}

	s, err := scalarString(v)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func scalarString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("value of type %T does not flatten to a token", v)
	}
}

func printHelp(flags *pflag.FlagSet) {
	fmt.Println("qwire converts flat key=value text to and from structured formats.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  qwire [flags] [document ...]")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  qwire 'name=test&ids=1&ids=2' --format json")
	fmt.Println("  echo 'a=1&b=2' | qwire -f yaml")
	fmt.Println("  qwire --encode '{\"name\": \"test\", \"ids\": [1, 2]}'")
	fmt.Println("  qwire -i")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Print(flags.FlagUsages())
}
