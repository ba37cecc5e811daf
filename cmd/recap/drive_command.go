package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recap/internal/manifest"
)

func newDriveLinkCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:         "drive-link <share-url>",
		Short:       "Convert a Google Drive share link into a direct media link",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			k := manifest.Kind(strings.ToLower(strings.TrimSpace(kind)))
			if !k.Known() {
				return fmt.Errorf("--type must be image or video, got %q", kind)
			}
			direct, err := manifest.DriveDirectURL(args[0], k)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), direct)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", string(manifest.KindImage), "Media type: image or video")
	return cmd
}
