package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/client"
	"github.com/adanyl0v/flowfocus/internal/registry"
	"github.com/adanyl0v/flowfocus/internal/services"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your profile",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileRenameCmd())
	cmd.AddCommand(profileAvatarCmd())
	cmd.AddCommand(profileRemoveAvatarCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile and task statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			var profiles services.ProfileService = r.client
			profile, err := profiles.GetProfile(cmd.Context(), r.session.UserID)
			if err != nil {
				return err
			}

			if name := profile.User.DisplayName(); name != r.session.Profile.DisplayName {
				r.session.Profile.DisplayName = name
				if err := r.save(); err != nil {
					r.logger.Warn().
						Err(err).
						Msg("failed to cache display name")
				}
			}
			ui.RenderProfile(e.out, profile.User, r.session.Profile.Avatar, profile.Stats)
			return nil
		},
	}
}

func profileRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME",
		Short: "Change your display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			var profiles services.ProfileService = r.client
			user, err := profiles.UpdateProfile(cmd.Context(), services.UpdateProfileParams{
				UserID: r.session.UserID,
				Name:   strings.TrimSpace(strings.Join(args, " ")),
			})
			if err != nil {
				r.notifier().Notify(registry.Notification{
					Title:       "Error",
					Description: "Failed to update profile",
					Destructive: true,
				})
				return reported(err)
			}

			r.session.Profile.DisplayName = user.DisplayName()
			err = r.save()
			if err != nil {
				return err
			}
			r.notifier().Notify(registry.Notification{Title: "Profile updated!"})
			return nil
		},
	}
}

func profileAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar IMAGE",
		Short: "Set the avatar shown on this device (up to 5MB)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			avatar, err := client.EncodeAvatar(args[0])
			if err != nil {
				r.notifier().Notify(registry.Notification{
					Title:       "Error",
					Description: err.Error(),
					Destructive: true,
				})
				return reported(err)
			}

			r.session.Profile.Avatar = avatar
			err = r.save()
			if err != nil {
				return err
			}
			r.notifier().Notify(registry.Notification{Title: "Avatar updated!"})
			return nil
		},
	}
}

func profileRemoveAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-avatar",
		Short: "Remove the avatar from this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			r.session.Profile.Avatar = ""
			err = r.save()
			if err != nil {
				return err
			}
			r.notifier().Notify(registry.Notification{Title: "Avatar removed"})
			return nil
		},
	}
}
