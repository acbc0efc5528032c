package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/auth"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/membership"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/subscriptions"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	objectID   uint64
	objectType string
	emailOnly  bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the stored and target schema versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := st.Status(cmd.Context())
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(cmd.OutOrStdout(), status)
		}
		bold.Printf("Schema version: %d (target %d)\n", status.Stored, status.Target)
		if status.Current {
			success.Println("Schema is current")
		} else {
			warning.Println("Schema needs upgrading: run migrate up")
		}
		return nil
	},
}

var subscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "List the users following an object",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := subscriptions.NewFanout(st).GetSubscribers(cmd.Context(), objectID, models.SubscriptionObjectType(objectType), emailOnly)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(cmd.OutOrStdout(), ids)
		}
		bold.Printf("%s %d has %s:\n", objectType, objectID, plural(len(ids), "subscriber"))
		for _, id := range ids {
			fmt.Printf("  %d\n", id)
		}
		return nil
	},
}

var countsCmd = &cobra.Command{
	Use:   "counts <post-id>",
	Short: "Show like and approved comment counts for a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid post id %q", args[0])
		}

		// Read straight from the database, never from a cache
		svc := engagement.NewService(st, cache.Nop{}, cfg.Engagement)
		snap, err := svc.GetPostEngagement(cmd.Context(), postID, 0)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(cmd.OutOrStdout(), snap)
		}
		fmt.Printf("Post %d: %s, %s\n", postID,
			plural(int(snap.LikeCount), "like"),
			plural(int(snap.CommentCount), "comment"))
		return nil
	},
}

var membershipsCmd = &cobra.Command{
	Use:   "memberships <user-id>",
	Short: "List the membership levels a user currently holds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		levels, err := membership.NewProvider(db, cfg.Database.TablePrefix).ActiveLevels(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(cmd.OutOrStdout(), levels)
		}
		if len(levels) == 0 {
			warning.Fprintf(cmd.OutOrStdout(), "User %d has no active membership\n", userID)
			return nil
		}
		bold.Fprintf(cmd.OutOrStdout(), "User %d holds %s: %s\n", userID,
			plural(len(levels), "level"), strings.Join(levels, ", "))
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a bearer token for a user (development only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("tokens can only be issued in development")
		}
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is not set")
		}
		userID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		user, err := st.FindUser(cmd.Context(), userID)
		if err != nil {
			return err
		}

		token, expiresAt, err := auth.NewService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, st).GenerateToken(user)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"token": token, "expires_at": expiresAt})
		}
		fmt.Println(token)
		fmt.Fprintf(os.Stderr, "expires %s\n", humanize.Time(expiresAt))
		return nil
	},
}

func init() {
	subscribersCmd.Flags().Uint64Var(&objectID, "object-id", 0, "Object ID")
	subscribersCmd.Flags().StringVar(&objectType, "object-type", string(models.ObjectPlaylist), "Object type")
	subscribersCmd.Flags().BoolVar(&emailOnly, "email-only", false, "Only users who opted into email")
	_ = subscribersCmd.MarkFlagRequired("object-id")
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
