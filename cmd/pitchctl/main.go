// cmd/pitchctl/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"pitchcraft/internal/charts"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/extract"
	"pitchcraft/internal/mcp"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		help(stderr)
		return 1
	}

	switch args[0] {
	case "extract", "deck", "chart":
		return runOffline(args[0], args[1:], stdin, stdout, stderr)
	case "mcp":
		if err := mcp.ServeStdio(mcp.NewServer(mcp.ServerConfig{Version: version})); err != nil {
			errorf(stderr, "mcp server: %v", err)
			return 1
		}
		return 0
	case "help", "-h", "--help":
		help(stdout)
		return 0
	default:
		errorf(stderr, "unknown command %q", args[0])
		help(stderr)
		return 1
	}
}

func runOffline(cmd string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "-", "Input text file, - for stdin")
	format := fs.String("format", "json", "Output format: json or yaml")
	intent := fs.String("intent", "growth", "Chart intent: growth or financial (chart only)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *format != "json" && *format != "yaml" {
		errorf(stderr, "unsupported format %q", *format)
		return 2
	}

	text, err := readInput(*file, stdin)
	if err != nil {
		errorf(stderr, "read input: %v", err)
		return 1
	}
	if strings.TrimSpace(text) == "" {
		errorf(stderr, "input text is empty")
		return 1
	}

	profile := extract.BuildProfile(text)

	var out interface{}
	switch cmd {
	case "extract":
		out = profile
	case "deck":
		out = map[string]interface{}{"slides": deck.NewAssembler(deck.DefaultPlaceholder).Assemble(profile)}
	case "chart":
		parsed, ok := charts.ParseIntent(*intent)
		if !ok {
			errorf(stderr, "unsupported intent %q", *intent)
			return 2
		}
		out = charts.Synthesize(profile.Metrics, parsed)
	}

	if err := write(stdout, *format, out); err != nil {
		errorf(stderr, "write output: %v", err)
		return 1
	}

	infof(stderr, "%s: %s (%d metrics, %d people)", cmd, profile.CompanyName, len(profile.Metrics), len(profile.Personnel))
	return 0
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// write renders v as JSON or YAML. YAML goes through a JSON round trip so
// the keys match the JSON field names.
func write(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func infof(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format+"\n", args...)
}

func errorf(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(w, "✗ "+format+"\n", args...)
}

func help(w io.Writer) {
	fmt.Fprintln(w, "Usage: pitchctl <command> [flags]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  extract  Print the business profile for a text")
	fmt.Fprintln(w, "  deck     Print the structured slide deck for a text")
	fmt.Fprintln(w, "  chart    Print a synthesized chart series (-intent growth|financial)")
	fmt.Fprintln(w, "  mcp      Serve the PitchCraft MCP tools over stdio")
	fmt.Fprintln(w, "\nFlags:")
	fmt.Fprintln(w, "  -file    Input file, - for stdin (default -)")
	fmt.Fprintln(w, "  -format  json or yaml (default json)")
}
