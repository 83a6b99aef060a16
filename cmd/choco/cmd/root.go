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
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/choco/internal/colors"
	"github.com/blacktop/choco/internal/config"
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/internal/shim/sim"
	"github.com/blacktop/choco/pkg/rc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose boolean flag for verbose logging
	Verbose bool
	// AppVersion stores the plugin's version
	AppVersion string
	// AppBuildTime stores the plugin's build time
	AppBuildTime string

	conf *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "choco",
	Short: "Inspect and exercise reference-counted Objective-C and Core Foundation objects",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
		if viper.IsSet("color") {
			force := viper.GetBool("color")
			colors.Init(&force)
		}
		conf, err = config.LoadConfig()
		if err != nil {
			return err
		}
		rc.SetLeakCheck(conf.Runtime.LeakCheck)
		return installRuntime(conf.Runtime.Backend)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihander.Default)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/choco/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().Bool("color", false, "colorize output")
	rootCmd.PersistentFlags().String("runtime", config.RuntimeAuto, "object runtime (auto, native, sim)")
	rootCmd.PersistentFlags().Bool("leak-check", false, "report retained pointers collected without Release")
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindPFlag("runtime.backend", rootCmd.PersistentFlags().Lookup("runtime"))
	viper.BindPFlag("runtime.leak_check", rootCmd.PersistentFlags().Lookup("leak-check"))
	viper.BindEnv("color", "CLICOLOR")
	// Settings
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		cobra.CheckErr(err)

		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("choco")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// installRuntime makes the configured runtime current for the rest of the process.
func installRuntime(backend string) error {
	switch backend {
	case config.RuntimeNative:
		rt, ok := shim.Native()
		if !ok {
			return fmt.Errorf("the native runtime needs darwin with cgo enabled (try --runtime=sim)")
		}
		shim.Use(rt)
	case config.RuntimeSim:
		sim.New().Install()
	default:
		if rt, ok := shim.Native(); ok {
			shim.Use(rt)
		} else {
			log.Debug("no native runtime, using the simulated one")
			sim.New().Install()
		}
	}
	return nil
}
