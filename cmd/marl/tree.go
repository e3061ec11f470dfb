package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl/pkg/core"
)

var (
	treeParsed bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the tree of a document as JSON",
	Long: `Print the renderable tree of a document as indented JSON. With --parsed the
tree is printed as it comes out of the parser, before any transform runs.
Reads stdin when no file is given.`,
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

		c := newCompiler()
		var tree core.Node
		if treeParsed {
			doc, err := c.Parse(text)
			if err != nil {
				fatal("Error parsing document", err)
			}
			tree = doc.Root
		} else {
			res, err := c.Compile(text)
			if err != nil {
				fatal("Error compiling document", err)
			}
			tree = res.Tree
		}

		data, err := core.MarshalTree(tree)
		if err != nil {
			fatal("Error encoding tree", err)
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			fatal("Error encoding tree", err)
		}
		fmt.Println(out.String())
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVar(&treeParsed, "parsed", false, "Print the parsed tree, before transforms")
}
