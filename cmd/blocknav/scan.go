package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jarredhawkins/blocknav/internal/index"
	"github.com/jarredhawkins/blocknav/internal/parser"
)

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Index a workspace and report block pair counts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	rootPath := "."
	if len(args) == 1 {
		rootPath = args[0]
	} else if wd, err := os.Getwd(); err == nil {
		rootPath = wd
	}

	registry := parser.NewRegistry()
	parser.RegisterDefaults(registry)

	idx := index.New(rootPath, registry)
	if err := idx.Build(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("workspace %s\n", idx.RootPath())

	byLang := idx.StatsByLanguage()
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		s := byLang[lang]
		fmt.Printf("%-12s %5d files %7d pairs\n", lang, s.Files, s.Pairs)
	}

	files, pairs := idx.Stats()
	fmt.Printf("%-12s %5d files %7d pairs\n", "total", files, pairs)
	return nil
}
