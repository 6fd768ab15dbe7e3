package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/jarredhawkins/blocknav/internal/parser"
)

var (
	parseLang    string
	parseTokens  bool
	parseRegions bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Print the block pairs found in source files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseLang, "lang", "", "force a language instead of detecting by extension")
	parseCmd.Flags().BoolVar(&parseTokens, "tokens", false, "also print the keyword token stream")
	parseCmd.Flags().BoolVar(&parseRegions, "regions", false, "also print excluded regions")
	rootCmd.AddCommand(parseCmd)
}

// nest-level color rotation for pair output
var nestColors = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgBlue),
}

func runParse(cmd *cobra.Command, args []string) error {
	registry := parser.NewRegistry()
	parser.RegisterDefaults(registry)

	for _, path := range args {
		p := registry.ForPath(path)
		if parseLang != "" {
			p = registry.ForName(parseLang)
		}
		if p == nil {
			return errors.Errorf("no grammar for %s", path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.WithStack(err)
		}
		source := string(content)

		fmt.Printf("%s (%s)\n", path, p.Grammar().Name)

		if parseRegions {
			for _, r := range p.ExcludedRegions(source) {
				fmt.Printf("  region [%d, %d)\n", r.Start, r.End)
			}
		}
		if parseTokens {
			for _, tok := range p.Tokens(source) {
				fmt.Printf("  %-6s %q at %d:%d\n", tok.Type, tok.Value, tok.Line+1, tok.Column+1)
			}
		}

		pairs := p.Parse(source)
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Open.Offset < pairs[j].Open.Offset
		})
		for _, pair := range pairs {
			c := nestColors[pair.NestLevel%len(nestColors)]
			line := fmt.Sprintf("  %*s%s %d:%d .. %s %d:%d",
				pair.NestLevel*2, "",
				pair.Open.Value, pair.Open.Line+1, pair.Open.Column+1,
				pair.Close.Value, pair.Close.Line+1, pair.Close.Column+1)
			if n := len(pair.Intermediates); n > 0 {
				line += fmt.Sprintf(" (%d intermediates)", n)
			}
			c.Println(line)
		}
	}
	return nil
}
