// Package importcmd implements `editctl import`: decode a WAV file and
// write a fresh single-track project document.
package importcmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/engine"
	"github.com/tidesound/editor/internal/project"
)

// Command builds the `import` subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var trackName, outPath string

	cmd := &cobra.Command{
		Use:   "import [audio.wav]",
		Short: "Import a WAV file as a new project's first track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath := args[0]
			f, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", sourcePath, err)
			}
			defer f.Close()

			sess := engine.New(settings)
			buf, err := sess.Registry.LoadWAV(f)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", sourcePath, err)
			}
			ov := sess.Waves.BuildOverview(buf, settings.Waveform.OverviewBuckets)

			if trackName == "" {
				trackName = sourcePath
			}
			sess.Store.CreateTrackFromBuffer(buf, ov, trackName, 0, sourcePath)

			doc := project.FromStore(trackName, sess.Store, time.Now())
			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer out.Close()
			return project.Encode(out, doc)
		},
	}

	cmd.Flags().StringVar(&trackName, "track-name", "", "name for the imported track (defaults to the file path)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "project.json", "path to write the new project document")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}
