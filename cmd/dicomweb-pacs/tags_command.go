package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jinftw64/dicomweb-pacs/internal/dicom/tags"
)

func newTagsCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the DICOM tags the gateway can query on",
		RunE: func(cmd *cobra.Command, args []string) error {
			needle := strings.ToLower(strings.TrimSpace(filter))

			rows := make([][]string, 0)
			for _, tag := range tags.All() {
				if needle != "" && !strings.Contains(strings.ToLower(tag.Keyword), needle) {
					continue
				}
				rows = append(rows, []string{tag.Code, tag.Keyword, tag.VR})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags match the filter")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Keyword", "VR"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list tags whose keyword contains this substring")
	return cmd
}
