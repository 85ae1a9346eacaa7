package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
	"github.com/dmitrijs2005/snapshop/internal/client/services"
)

func (a *App) Profile(ctx context.Context) error {
	u := a.user
	location := u.Location
	if location == "" {
		location = "(not set)"
	}
	avatar := "(none)"
	if u.ProfilePic != "" {
		avatar = "set"
		if img, err := capture.FromDataURL(u.ProfilePic); err == nil {
			avatar = img.MIMEType
		}
	}

	fmt.Fprintf(a.out, "Email:    %s\nLocation: %s\nAvatar:   %s\nHistory:  %d searches\n",
		u.Email, location, avatar, len(u.History))
	return nil
}

// SetLocation asks for a new location. An unchanged value is not saved; an
// empty one clears the location.
func (a *App) SetLocation(ctx context.Context) error {
	prompt := "Enter your location (city, region or address; empty to clear)"
	if a.user.Location != "" {
		prompt += fmt.Sprintf("\nCurrent: %s", a.user.Location)
	}

	location, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if location == a.user.Location {
		fmt.Fprintln(a.out, "Location unchanged.")
		return nil
	}

	acc, err := a.accounts.UpdateAccount(ctx, a.user.Email, services.WithLocation(location))
	if err != nil {
		return err
	}
	a.user = acc
	fmt.Fprintln(a.out, "Location saved.")
	return nil
}

// SetAvatar sets the profile picture from an image file.
func (a *App) SetAvatar(ctx context.Context, path string) error {
	img, err := capture.FromFile(path)
	if err != nil {
		return err
	}

	acc, err := a.accounts.UpdateAccount(ctx, a.user.Email, services.WithProfilePic(img.DataURL()))
	if err != nil {
		return err
	}
	a.user = acc
	fmt.Fprintln(a.out, "Profile picture updated.")
	return nil
}
