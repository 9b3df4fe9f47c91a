// Package cli exposes the profile service as cobra commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"profile-service/internal/domain"
	"profile-service/internal/service"
)

// ServiceFactory builds the profile service lazily, after flags are parsed.
// The returned cleanup func is called once the command finishes.
type ServiceFactory func(cmd *cobra.Command) (service.ProfileService, func(), error)

// NewRootCommand returns the "profiles" command tree.
func NewRootCommand(newService ServiceFactory, logger *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "profiles",
		Short:         "Inspect and modify stored user profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a config file (yaml, json or toml)")

	withService := func(cmd *cobra.Command, fn func(svc service.ProfileService) error) error {
		svc, cleanup, err := newService(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(svc)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "get <profile_id>",
			Short: "Print the profile with the given id as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return withService(cmd, func(svc service.ProfileService) error {
					profile, err := svc.GetByID(cmd.Context(), id)
					if err != nil {
						return describe(err, id)
					}
					return writeProfile(cmd.OutOrStdout(), profile)
				})
			},
		},
		&cobra.Command{
			Use:   "update <profile_id> <data_filepath>",
			Short: "Replace a profile's fields with the JSON data in a file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				req, err := readEditRequest(args[1])
				if err != nil {
					return err
				}
				return withService(cmd, func(svc service.ProfileService) error {
					profile, err := svc.EditByID(cmd.Context(), id, req)
					if err != nil {
						return describe(err, id)
					}
					logger.WithField("id", profile.ID).Debug("profile updated")
					return writeProfile(cmd.OutOrStdout(), profile)
				})
			},
		},
		&cobra.Command{
			Use:   "create <data_filepath>",
			Short: "Create a profile from the JSON data in a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				req, err := readEditRequest(args[0])
				if err != nil {
					return err
				}
				return withService(cmd, func(svc service.ProfileService) error {
					profile, err := svc.Create(cmd.Context(), req)
					if err != nil {
						return err
					}
					logger.WithField("id", profile.ID).Debug("profile created")
					return writeProfile(cmd.OutOrStdout(), profile)
				})
			},
		},
	)

	return root
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid profile id %q: must be an integer", raw)
	}
	return id, nil
}

// readEditRequest decodes and validates the request before the store is touched.
func readEditRequest(path string) (domain.EditRequest, error) {
	var req domain.EditRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read data file: %w", err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse data file %s: %w", path, err)
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func describe(err error, id int64) error {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return fmt.Errorf("no profile exists with ID %d: %w", id, err)
	}
	return err
}

func writeProfile(w io.Writer, profile *domain.Profile) error {
	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
