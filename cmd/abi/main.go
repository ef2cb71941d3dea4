package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/soprox-abi/codec"
	"github.com/wippyai/soprox-abi/schema"
)

type options struct {
	schemaFile  string
	name        string
	encodeFile  string
	decodeHex   string
	layout      bool
	wit         bool
	verbose     bool
	interactive bool
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("abi", pflag.ExitOnError)
	flags.StringVarP(&opts.schemaFile, "schema", "s", "", "Path to a YAML or JSON schema document")
	flags.StringVarP(&opts.name, "name", "n", "", "Schema to use (default: first in document)")
	flags.BoolVarP(&opts.layout, "layout", "l", false, "Print the field offset table")
	flags.BoolVarP(&opts.wit, "wit", "w", false, "Print the layout as a WIT record")
	flags.StringVarP(&opts.encodeFile, "encode", "e", "", "Encode values from a YAML file and print hex")
	flags.StringVarP(&opts.decodeHex, "decode", "d", "", "Decode a hex buffer and print YAML")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Interactive mode with TUI")
	flags.Parse(os.Args[1:])

	if opts.schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: abi -s <schema.yaml> [-n name] [--layout] [--wit]")
		fmt.Fprintln(os.Stderr, "       abi -s <schema.yaml> -n name --encode values.yaml")
		fmt.Fprintln(os.Stderr, "       abi -s <schema.yaml> -n name --decode <hex>")
		fmt.Fprintln(os.Stderr, "       abi -s <schema.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if opts.verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			codec.SetLogger(l)
			defer l.Sync()
		}
	}

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts.schemaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	doc, err := schema.LoadFile(opts.schemaFile)
	if err != nil {
		return err
	}
	name := opts.name
	if name == "" {
		if len(doc.Names) == 0 {
			return fmt.Errorf("%s defines no schemas", opts.schemaFile)
		}
		name = doc.Names[0]
	}
	s, err := doc.Get(name)
	if err != nil {
		return err
	}
	layout, err := codec.Compile(s)
	if err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}

	fmt.Fprintf(out, "%s: %d bytes\n", name, layout.Space())
	if opts.layout {
		fmt.Fprintln(out)
		writeLayout(out, layout)
	}
	if opts.wit {
		fmt.Fprintln(out)
		fmt.Fprintln(out, codec.FormatWIT(layout.WITRecord(name)))
	}
	if opts.encodeFile != "" {
		data, err := os.ReadFile(opts.encodeFile)
		if err != nil {
			return fmt.Errorf("read values: %w", err)
		}
		buf, err := encodeYAML(layout, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hex.EncodeToString(buf))
	}
	if opts.decodeHex != "" {
		text, err := decodeHex(layout, opts.decodeHex)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
	}
	return nil
}

// writeLayout prints one row per field, nested members indented.
func writeLayout(w io.Writer, l *codec.Layout) {
	fmt.Fprintf(w, "%-6s %-6s %s\n", "OFFSET", "SPACE", "FIELD")
	for _, f := range l.Fields() {
		indent := strings.Repeat("  ", f.Depth)
		fmt.Fprintf(w, "%-6d %-6d %s%s %s\n", f.Offset, f.Space, indent, f.Path[strings.LastIndex(f.Path, ".")+1:], f.Type)
	}
}

// encodeYAML encodes a YAML (or JSON) mapping of values.
func encodeYAML(l *codec.Layout, data []byte) ([]byte, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return l.Encode(values)
}

// decodeHex decodes a hex buffer and renders the result as YAML.
func decodeHex(l *codec.Layout, text string) (string, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "0x")
	text = strings.Join(strings.Fields(text), "")
	buf, err := hex.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("parse hex: %w", err)
	}
	values, err := l.Decode(buf)
	if err != nil {
		return "", err
	}
	return renderYAML(l.Root(), values)
}
