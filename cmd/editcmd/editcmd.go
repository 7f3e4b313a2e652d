// Package editcmd implements `editctl edit`: apply one edit-engine
// operation to a project, snapshotting history around it so --undo can
// be exercised from the command line.
package editcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidesound/editor/cmd/sessionio"
	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/errs"
	"github.com/tidesound/editor/internal/timeline"
)

// Command builds the `edit` subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		op                string
		trackID           string
		clipID            string
		start, end, atPos float64
		snap              bool
		undo              bool
		inPath, outPath   string
	)

	cmd := &cobra.Command{
		Use:   "edit [project.json]",
		Short: "Apply one edit-engine operation to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath = args[0]
			sess, doc, err := sessionio.Load(inPath, settings)
			if err != nil {
				return err
			}

			sess.History.PushState(op)

			var applyErr error
			switch op {
			case "cut":
				if _, ok := sess.Edit.CutRegion(timeline.TrackID(trackID), start, end, true); !ok {
					applyErr = errs.Newf("cut on track %s produced no change", trackID).
						Component("editcmd").Category(errs.CategoryEngine).Build()
				}
			case "ripple-delete":
				if !sess.Edit.RippleDelete(start, end) {
					applyErr = errs.Newf("ripple-delete [%g,%g] produced no change", start, end).
						Component("editcmd").Category(errs.CategoryEngine).Build()
				}
			case "delete":
				if !sess.Edit.Delete(start, end) {
					applyErr = errs.Newf("delete [%g,%g] produced no change", start, end).
						Component("editcmd").Category(errs.CategoryEngine).Build()
				}
			case "split":
				if _, _, ok := sess.Edit.SplitAtTime(timeline.TrackID(trackID), timeline.ClipID(clipID), atPos); !ok {
					applyErr = errs.Newf("split of clip %s at %g produced no change", clipID, atPos).
						Component("editcmd").Category(errs.CategoryEngine).Build()
				}
			case "move":
				if !sess.Edit.SetClipStart(timeline.TrackID(trackID), timeline.ClipID(clipID), atPos, snap) {
					applyErr = errs.Newf("move of clip %s produced no change", clipID).
						Component("editcmd").Category(errs.CategoryEngine).Build()
				}
			default:
				applyErr = errs.Newf("unknown operation %q", op).
					Component("editcmd").Category(errs.CategoryEngine).Build()
			}

			if applyErr != nil {
				return applyErr
			}

			if undo {
				sess.History.Undo()
			}

			if outPath == "" {
				outPath = inPath
			}
			return sessionio.Save(outPath, sess, doc.Name)
		},
	}

	cmd.Flags().StringVar(&op, "op", "", "operation: cut|ripple-delete|delete|split|move")
	cmd.Flags().StringVar(&trackID, "track", "", "track id")
	cmd.Flags().StringVar(&clipID, "clip", "", "clip id (split/move)")
	cmd.Flags().Float64Var(&start, "start", 0, "region start (cut/ripple-delete/delete)")
	cmd.Flags().Float64Var(&end, "end", 0, "region end (cut/ripple-delete/delete)")
	cmd.Flags().Float64Var(&atPos, "at", 0, "split time or move target (split/move)")
	cmd.Flags().BoolVar(&snap, "snap", false, "snap to nearby clip edges (move)")
	cmd.Flags().BoolVar(&undo, "undo", false, "apply then immediately undo, for testing history round-trips")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "path to write the updated project (defaults to the input path)")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}
