package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl/pkg/adapters/highlight"
)

var (
	languagesJSON bool
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages fences can be highlighted in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := newCompiler()
		langs := c.Engine.Languages()

		if languagesJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(c.Engine.State()); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		fmt.Println(strings.Join(langs, "\n"))
	},
}

var cssCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the stylesheet for highlighted fences",
	Long: `Print the CSS matching the classes emitted for highlighted fences, using the
chroma style selected with --style. Use --list to see the available styles.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if list, _ := cmd.Flags().GetBool("list"); list {
			fmt.Println(strings.Join(highlight.Styles(), "\n"))
			return
		}
		c := newCompiler()
		if err := c.WriteCSS(os.Stdout, style); err != nil {
			fatal("Error writing CSS", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(cssCmd)
	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "Output engine state as JSON")
	cssCmd.Flags().Bool("list", false, "List available styles")
}
