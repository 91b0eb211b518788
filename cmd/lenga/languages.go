package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hugozeballos/lenga/internal/config"
	"github.com/hugozeballos/lenga/internal/language"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Print the configured variant's language reference list",
	RunE:  runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	v := cfg.LanguageVariant()

	fmt.Printf("variant: %s (%s)\n\n", v, v.Title())
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tWRITING\tDIALECT")
	for _, l := range language.List(v) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Code, l.Name, l.Writing, l.Dialect)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	src, dst := language.DefaultPair(v)
	fmt.Printf("\ndefault pair: %s → %s\n", src.Code, dst.Code)
	return nil
}
