// Package exportcmd implements `editctl export`: render a project's
// active tracks down to a single WAV file via the mixer and wavcodec.
package exportcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidesound/editor/cmd/sessionio"
	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/errs"
	"github.com/tidesound/editor/internal/wavcodec"
)

// Command builds the `export` subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var outPath, format string

	cmd := &cobra.Command{
		Use:   "export [project.json]",
		Short: "Render a project's active tracks to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := sessionio.Load(args[0], settings)
			if err != nil {
				return err
			}

			mixed, err := sess.Mixer.Render(context.Background(), sess.Store.Tracks)
			if err != nil {
				return err
			}
			if mixed == nil {
				return errs.New(nil).Component("exportcmd").Category(errs.CategoryNoAudio).Build()
			}

			channels := make([][]float32, mixed.ChannelCount())
			for c := range channels {
				channels[c] = mixed.Channel(c)
			}

			var enc wavcodec.Format
			switch format {
			case "float32":
				enc = wavcodec.FormatFloat32
			case "pcm16", "":
				enc = wavcodec.FormatPCM16
			default:
				return errs.Newf("unknown export format %q", format).
					Component("exportcmd").Category(errs.CategoryInvalidRange).Build()
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer out.Close()

			limits := wavcodec.Limits{
				MaxBytes:       settings.Codec.MaxEncodeBytes,
				MaxMixDuration: settings.Codec.MaxMixDuration,
			}
			return wavcodec.Encode(out, channels, mixed.SampleRate(), enc, limits)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "mixdown.wav", "path to write the rendered WAV file")
	cmd.Flags().StringVar(&format, "format", "pcm16", "sample format: pcm16|float32")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}
