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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/apex/log"
	"github.com/blacktop/choco/internal/colors"
	"github.com/blacktop/choco/pkg/foundation"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(plistCmd)

	plistCmd.Flags().BoolP("watch", "w", false, "Watch a file or directory and re-render plists as they change")
	plistCmd.Flags().BoolP("xml", "x", false, "Re-encode as an XML plist instead of JSON")
	plistCmd.Flags().StringP("theme", "t", "", "Color theme (nord, github, etc)")
	plistCmd.RegisterFlagCompletionFunc("theme", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return styles.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	plistCmd.Flags().StringSliceP("exclude", "e", nil, "Exclude files from watching (substring match)")
	viper.BindPFlag("plist.watch", plistCmd.Flags().Lookup("watch"))
	viper.BindPFlag("plist.xml", plistCmd.Flags().Lookup("xml"))
	viper.BindPFlag("output.theme", plistCmd.Flags().Lookup("theme"))
	viper.BindPFlag("plist.exclude", plistCmd.Flags().Lookup("exclude"))
}

// renderPlist decodes data into Foundation objects and renders the object graph back out.
func renderPlist(data []byte, asXML bool) (string, string, error) {
	obj, err := foundation.DecodePropertyList(data)
	if err != nil {
		return "", "", err
	}
	defer obj.(interface{ Release() }).Release()

	if asXML {
		out, err := foundation.EncodePropertyList(obj)
		if err != nil {
			return "", "", err
		}
		return string(out), "xml", nil
	}
	v, err := foundation.ToGo(obj)
	if err != nil {
		return "", "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal json: %v", err)
	}
	return string(out) + "\n", "json", nil
}

func printHighlighted(out, lexer string) error {
	if !colors.Active() {
		fmt.Print(out)
		return nil
	}
	theme := conf.Output.Theme
	if t := viper.GetString("output.theme"); t != "" {
		theme = t
	}
	if err := quick.Highlight(os.Stdout, out, lexer, "terminal256", theme); err != nil {
		return fmt.Errorf("failed to highlight %s: %v", lexer, err)
	}
	return nil
}

func excluded(path string, exclude []string) bool {
	for _, e := range exclude {
		if strings.Contains(path, e) {
			return true
		}
	}
	return false
}

func watchPlists(ctx context.Context, path string, asXML bool, exclude []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	log.WithField("path", path).Info("Watching for plist changes...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".plist" || excluded(event.Name, exclude) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Infof("event: %s", event.String())
			data, err := os.ReadFile(event.Name)
			if err != nil {
				log.WithError(err).Warn("failed to read plist")
				continue
			}
			out, lexer, err := renderPlist(data, asXML)
			if err != nil {
				log.WithError(err).Warnf("failed to render %s", event.Name)
				continue
			}
			if err := printHighlighted(out, lexer); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("error: %v", err)
		}
	}
}

// plistCmd represents the plist command
var plistCmd = &cobra.Command{
	Use:     "plist [<file>|<watch-path>]",
	Aliases: []string{"pl"},
	Short:   "Round-trip a plist through Foundation objects",
	Args:    cobra.MaximumNArgs(1),
	Example: heredoc.Doc(`
		# Convert a plist file to JSON
		❯ choco plist Info.plist

		# Re-encode as XML
		❯ choco plist --xml Info.plist

		# Read plist from stdin
		❯ cat Info.plist | choco plist

		# Watch a directory for plist changes
		❯ choco plist --watch ~/Library/Preferences --exclude ContextStoreAgent
	`),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		asXML := viper.GetBool("plist.xml")

		if viper.GetBool("plist.watch") {
			if len(args) == 0 {
				return fmt.Errorf("must provide a path to watch")
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchPlists(ctx, path, asXML, viper.GetStringSlice("plist.exclude"))
		}

		var data []byte
		if len(args) > 0 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read plist: %v", err)
			}
		} else {
			stat, err := os.Stdin.Stat()
			if err != nil {
				return fmt.Errorf("failed to read from stdin: %v", err)
			}
			if (stat.Mode() & os.ModeCharDevice) != 0 {
				return fmt.Errorf("no input provided via stdin")
			}
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read from stdin: %v", err)
			}
		}

		out, lexer, err := renderPlist(data, asXML)
		if err != nil {
			return err
		}
		return printHighlighted(out, lexer)
	},
}
