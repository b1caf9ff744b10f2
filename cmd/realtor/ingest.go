package main

import (
	"fmt"
	"os"

	"github.com/lewtec/realtor/internal/domain"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [flags] image...",
	Short: "Create a listing from image files on disk",
	Long: `Creates one listing with one picture per image file, in the order given.
Nothing is stored if any of the files is not a readable image.

Example: realtor ingest --name "Flat A" --phone +1 --full-name "Jane Doe" --metro-station Central --metro-distance 0.5 a.jpg b.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		var in domain.NewListing
		flags := cmd.Flags()
		if in.Name, err = flags.GetString("name"); err != nil {
			return err
		}
		if in.Phone, err = flags.GetString("phone"); err != nil {
			return err
		}
		if in.ContactFullName, err = flags.GetString("full-name"); err != nil {
			return err
		}
		if in.TransitStationName, err = flags.GetString("metro-station"); err != nil {
			return err
		}
		if in.TransitDistance, err = flags.GetFloat64("metro-distance"); err != nil {
			return err
		}

		images := make([][]byte, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			images = append(images, data)
		}

		store, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		svc := newService(store, cfg)
		ctx := logger.WithContext(cmd.Context())
		id, err := svc.CreateListing(ctx, in, images)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("name", "", "Listing name")
	ingestCmd.Flags().String("phone", "", "Contact phone")
	ingestCmd.Flags().String("full-name", "", "Contact full name")
	ingestCmd.Flags().String("metro-station", "", "Nearest metro station")
	ingestCmd.Flags().Float64("metro-distance", 0, "Distance to the metro station")
}
