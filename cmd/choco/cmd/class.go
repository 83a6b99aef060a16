/*
Copyright © 2018-2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/choco/internal/colors"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(classCmd)

	classCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	classCmd.Flags().StringP("conforms", "p", "", "Only report whether each class conforms to this protocol")
	classCmd.Flags().StringP("responds", "s", "", "Only report whether instances of each class respond to this selector")
	classCmd.MarkFlagsMutuallyExclusive("conforms", "responds")
	viper.BindPFlag("class.json", classCmd.Flags().Lookup("json"))
	viper.BindPFlag("class.conforms", classCmd.Flags().Lookup("conforms"))
	viper.BindPFlag("class.responds", classCmd.Flags().Lookup("responds"))
}

// classCmd represents the class command
var classCmd = &cobra.Command{
	Use:     "class <NAME>...",
	Aliases: []string{"cls"},
	Short:   "Describe Objective-C classes",
	Args:    cobra.MinimumNArgs(1),
	Example: heredoc.Doc(`
		# Show the hierarchy, protocols and selectors of a class
		❯ choco class NSMutableArray

		# Check protocol conformance of several classes
		❯ choco class NSString NSNumber NSURL --conforms NSCopying

		# Dump as JSON
		❯ choco class NSDictionary --json | jq .hierarchy
	`),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]*objc.ClassInfo, len(args))

		var eg errgroup.Group
		eg.SetLimit(runtime.NumCPU())
		for i, name := range args {
			eg.Go(func() error {
				info, err := objc.Inspect(name)
				if err != nil {
					return err
				}
				infos[i] = info
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}

		if proto := viper.GetString("class.conforms"); proto != "" {
			for _, info := range infos {
				printCheck(info.Name, proto, objc.ConformsToProtocol(objc.MustClass(info.Name), proto))
			}
			return nil
		}
		if sel := viper.GetString("class.responds"); sel != "" {
			for _, info := range infos {
				printCheck(info.Name, sel, objc.RespondsToSelector(objc.MustClass(info.Name), sel))
			}
			return nil
		}

		if viper.GetBool("class.json") {
			out := any(infos)
			if len(infos) == 1 {
				out = infos[0]
			}
			dat, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal class info: %v", err)
			}
			fmt.Println(string(dat))
			return nil
		}

		for i, info := range infos {
			if i > 0 {
				fmt.Println()
			}
			printClass(info)
		}
		log.Debugf("described %d classes", len(infos))
		return nil
	},
}

func printClass(info *objc.ClassInfo) {
	chain := make([]string, len(info.Hierarchy))
	for i, name := range info.Hierarchy {
		chain[i] = colors.Class().Sprint(name)
	}
	fmt.Printf("@interface %s", strings.Join(chain, " : "))
	if len(info.Protocols) > 0 {
		protos := make([]string, len(info.Protocols))
		for i, p := range info.Protocols {
			protos[i] = colors.Protocol().Sprint(p)
		}
		fmt.Printf(" <%s>", strings.Join(protos, ", "))
	}
	fmt.Println()
	for _, sel := range info.Selectors {
		fmt.Printf("  - %s\n", colors.Selector().Sprint(sel))
	}
	fmt.Println("@end")
}

func printCheck(class, what string, ok bool) {
	mark := colors.Leaked().Sprint("✗")
	if ok {
		mark = colors.Balanced().Sprint("✓")
	}
	fmt.Printf("%s %s %s\n", mark, colors.Class().Sprint(class), colors.Muted().Sprint(what))
}
