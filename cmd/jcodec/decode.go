package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/xenking/jcodec"
	"github.com/xenking/jcodec/internal/jlog"
)

// newDecodeCmd decodes a single JSON document via jcodec.DynamicDecoder
// and prints the rendered error trace on failure, or the re-encoded
// (indented) value on success.
func newDecodeCmd(fs afero.Fs, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "decode a single JSON document and print its parsed shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return errors.Wrap(err, "reading input file")
			}
			v, decErr := jcodec.DecodeBytes(data, jcodec.DynamicDecoder)
			if decErr != nil {
				jlog.WithTrace(log, decErr.Error()).Error("decode failed")
				return errors.Wrap(decErr, "decoding document")
			}
			log.WithField("file", args[0]).Info("decoded document")
			cmd.Println(jcodec.EncodeIndented(v, jcodec.DynamicEncoder))
			return nil
		},
	}
}
