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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/choco/internal/colors"
	"github.com/blacktop/choco/internal/shim/sim"
	"github.com/blacktop/choco/pkg/foundation"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntP("count", "n", foundation.EnumerationBatch*2+1, "Number of array elements")
	auditCmd.Flags().Bool("leak", false, "Deliberately drop one element without releasing it")
	auditCmd.Flags().BoolP("all", "a", false, "Show every tracked object, not only the unbalanced ones")
	viper.BindPFlag("audit.count", auditCmd.Flags().Lookup("count"))
	viper.BindPFlag("audit.leak", auditCmd.Flags().Lookup("leak"))
	viper.BindPFlag("audit.all", auditCmd.Flags().Lookup("all"))
}

type tracked struct {
	label string
	class string
	raw   rc.RawPtr
}

type audit struct {
	rt      *sim.Runtime
	objects []tracked
}

func (a *audit) track(label string, obj objc.Object) {
	a.objects = append(a.objects, tracked{label: label, class: objc.ClassName(objc.ClassOf(obj)), raw: obj.Raw()})
}

// run exercises containers, enumeration, copying and the error pair against the simulated runtime.
func (a *audit) run(count int, leak bool) error {
	elems := make([]*foundation.NSString, count)
	for i := range elems {
		elems[i] = foundation.NewNSString(fmt.Sprintf("element %d", i))
		a.track(fmt.Sprintf("elems[%d]", i), elems[i])
	}

	arr := foundation.NSArrayOf(elems...)
	a.track("array", arr)
	mut := arr.MutableCopy()
	a.track("mutable copy", mut)
	frozen := mut.Copy()
	a.track("frozen copy", frozen)

	n := 0
	for s := range frozen.All() {
		if leak && n == count/2 {
			log.Warnf("dropping %q without Release", s)
		} else {
			s.Release()
		}
		n++
	}
	if n != count {
		return fmt.Errorf("enumerated %d of %d elements", n, count)
	}

	keys := elems[:min(count, 4)]
	vals := make([]*foundation.NSNumber, len(keys))
	for i := range vals {
		vals[i] = foundation.NumberWithInt(int64(i))
		a.track(fmt.Sprintf("vals[%d]", i), vals[i])
	}
	dict := foundation.NSDictionaryWithObjects(vals, keys)
	a.track("dictionary", dict)
	for k, v := range dict.All() {
		k.Release()
		v.Release()
	}

	missing := filepath.Join(os.TempDir(), "choco-audit-missing.txt")
	s, err := foundation.NSStringWithContentsOfFile(missing)
	if err == nil {
		s.Release()
		return fmt.Errorf("reading %s succeeded", missing)
	}
	var nsErr *foundation.NSError
	if !errors.As(err, &nsErr) {
		return err
	}
	a.track("read error", nsErr)
	log.WithError(err).Debug("error pair")
	nsErr.Release()

	null := foundation.Null()
	for range 3 {
		null.Release()
	}

	for _, v := range vals {
		v.Release()
	}
	for _, e := range elems {
		e.Release()
	}
	dict.Release()
	frozen.Release()
	mut.Release()
	arr.Release()
	return nil
}

func (a *audit) report(all bool) (unbalanced int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, colors.Header().Sprint("OBJECT\tCLASS\tADDRESS\tRETAINS\tRELEASES\tSTATE"))
	var retains, releases int
	for _, obj := range a.objects {
		st := a.rt.Stats(obj.raw)
		retains += st.Retains
		releases += st.Releases
		state := colors.Balanced().Sprint("freed")
		if st.Live {
			unbalanced++
			state = colors.Leaked().Sprintf("leaked (refcount %d)", st.RefCount)
		} else if !all {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			obj.label,
			colors.Class().Sprint(obj.class),
			colors.Address().Sprint(obj.raw),
			st.Retains, st.Releases, state)
	}
	w.Flush()

	fmt.Printf("\n%s objects tracked, %s retains, %s releases, %s deallocated\n",
		humanize.Comma(int64(len(a.objects))),
		humanize.Comma(int64(retains)),
		humanize.Comma(int64(releases)),
		humanize.Comma(int64(a.rt.Deallocs())))
	if live := a.rt.LiveObjects(); live > 0 {
		fmt.Println(colors.Leaked().Sprintf("%s objects still alive", humanize.Comma(int64(live))))
	}
	if leaked := a.rt.Leaked(); len(leaked) > 0 {
		fmt.Println(colors.Leaked().Sprintf("%d objects autoreleased without a pool", len(leaked)))
	}
	fmt.Println(colors.Static().Sprint("NSNull released 3 times, ignored (static)"))
	return unbalanced
}

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run an ownership scenario on the simulated runtime and report reference counts",
	Args:  cobra.NoArgs,
	Example: heredoc.Doc(`
		# Check that every retain is balanced by a release
		❯ choco audit

		# Show what a leak looks like
		❯ choco audit --leak --all
	`),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		count := viper.GetInt("audit.count")
		if count < 1 {
			return fmt.Errorf("--count must be positive")
		}

		a := &audit{rt: sim.New()}
		restore := a.rt.Install()
		defer restore()

		if err := a.run(count, viper.GetBool("audit.leak")); err != nil {
			return err
		}
		if n := a.report(viper.GetBool("audit.all")); n > 0 {
			return fmt.Errorf("%d unbalanced objects", n)
		}
		log.Info("all references balanced")
		return nil
	},
}
