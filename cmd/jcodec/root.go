package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/xenking/jcodec/internal/config"
	"github.com/xenking/jcodec/internal/jlog"
)

// newRootCmd builds the jcodec command tree. fs is overridden in tests to
// an afero.MemMapFs; production always runs with afero.NewOsFs().
func newRootCmd() *cobra.Command {
	fs := afero.NewOsFs()
	log := jlog.New()

	root := &cobra.Command{
		Use:   "jcodec",
		Short: "streaming JSON codec CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(nil); err != nil {
				return err
			}
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	root.AddCommand(newDecodeCmd(fs, log))
	root.AddCommand(newStreamCmd(fs, log))
	root.AddCommand(newRoundtripCmd(fs, log))
	root.AddCommand(newProbeCmd(fs, log))
	return root
}
