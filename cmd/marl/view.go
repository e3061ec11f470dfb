package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	viewWidth int
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	tagStyle   = lipgloss.NewStyle().Faint(true)
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Preview a document in the terminal",
	Long: `Parse a document and print it styled for the terminal: the title and tags
from its header, then the body. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var text string
		var err error
		if len(args) == 0 || args[0] == "-" {
			text, err = readAll(os.Stdin)
		} else {
			var data []byte
			data, err = os.ReadFile(args[0])
			text = string(data)
		}
		if err != nil {
			fatal("Error reading document", err)
		}

		doc, err := newCompiler().Parse(text)
		if err != nil {
			fatal("Error parsing document", err)
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(viewWidth),
		)
		if err != nil {
			fatal("Error initializing terminal renderer", err)
		}
		body, err := renderer.Render(doc.Body)
		if err != nil {
			fatal("Error rendering document", err)
		}

		if doc.Attributes.Title != "" {
			fmt.Println(titleStyle.Render(doc.Attributes.Title))
		}
		if len(doc.Attributes.Tags) > 0 {
			fmt.Println(tagStyle.Render("#" + strings.Join(doc.Attributes.Tags, " #")))
		}
		fmt.Print(body)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().IntVarP(&viewWidth, "width", "w", 80, "Wrap the body at this many columns")
}
