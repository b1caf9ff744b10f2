package main

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lewtec/realtor/internal/apperrors"
	"github.com/spf13/cobra"
)

// printTable writes tab separated rows, with a header line when there is
// more than one column.
func printTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) > 1 {
		fmt.Fprintln(w, strings.Join(columns, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

func formatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

func imageSize(data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every listing with its thumbnails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		svc := newService(store, cfg)
		summaries, err := svc.ListSummaries(logger.WithContext(cmd.Context()))
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(summaries))
		for _, s := range summaries {
			sizes := make([]string, 0, len(s.Thumbnails))
			for _, t := range s.Thumbnails {
				sizes = append(sizes, imageSize(t))
			}
			rows = append(rows, []string{
				s.ID.String(),
				s.Name,
				s.TransitStationName,
				formatDistance(s.TransitDistance),
				strings.Join(sizes, ","),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"id", "name", "metro_station", "metro_distance", "thumbnails"}, rows)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [flags] id",
	Short: "Show one listing with its original images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return apperrors.New(apperrors.KindInvalidIdentifier, "parse id", err)
		}
		outputDir, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		svc := newService(store, cfg)
		detail, err := svc.GetDetail(logger.WithContext(cmd.Context()), id)
		if err != nil {
			return err
		}

		rows := [][]string{
			{"id", detail.ID.String()},
			{"name", detail.Name},
			{"phone", detail.Phone},
			{"full_name", detail.ContactFullName},
			{"metro_station", detail.TransitStationName},
			{"metro_distance", formatDistance(detail.TransitDistance)},
			{"created_at", detail.CreatedAt.Format("2006-01-02T15:04:05Z07:00")},
		}
		for i, p := range detail.Pictures {
			rows = append(rows, []string{fmt.Sprintf("image %d", i), fmt.Sprintf("%s %d bytes", imageSize(p.Original), len(p.Original))})
		}
		printTable(cmd.OutOrStdout(), []string{"field", "value"}, rows)

		if outputDir == "" {
			return nil
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}
		for i, original := range detail.Originals() {
			path := filepath.Join(outputDir, fmt.Sprintf("%s-%d%s", detail.ID, i, imageExt(original)))
			if err := os.WriteFile(path, original, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			logger.Info().Str("path", path).Msg("show: image written")
		}
		return nil
	},
}

func imageExt(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ".bin"
	}
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("output", "o", "", "Directory to write the original images to")
}
