package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"larplaner/internal/api"
	"larplaner/internal/config"
	"larplaner/internal/db"
	"larplaner/internal/domain"
	"larplaner/internal/larp"
	"larplaner/internal/migrate"
	"larplaner/internal/query"
	"larplaner/internal/repo"
	"larplaner/internal/server"
	"larplaner/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "larp",
	Short: "LARPlaner CLI",
	Long: `LARPlaner manages live-action role-playing events against a LARPlaner backend.
Core concepts:
- Tags: reusable labels attached to roles and gating in-game actions.
- Roles: characters players can take; a role carries tags.
- Scenarios: the playbook of an event, with per-scenario roles, items and actions.
- Events: scheduled runs of a scenario; roles are assigned to player emails.
- Game sessions: a running event with live role/item/action state.
Commands talk to the server configured in larplaner.yml ('larp config init'
writes a starter file); 'larp serve' runs a local development backend.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LARPLANER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("server", "", "server URL (overrides config)")
	rootCmd.PersistentFlags().String("token", "", "bearer token (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}

func registerCommands() {
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(eventCmd())
	rootCmd.AddCommand(roleCmd())
	rootCmd.AddCommand(scenarioCmd())
	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(gameCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(serveCmd())
}

// --- config ---

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage larplaner.yml"}
	cfg.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default larplaner.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(c)
		},
	})
	return cfg
}

// --- events ---

func eventCmd() *cobra.Command {
	ev := &cobra.Command{Use: "event", Short: "Manage events"}
	ev.AddCommand(eventListCmd())
	ev.AddCommand(eventGetCmd())
	ev.AddCommand(eventForGameCmd())
	ev.AddCommand(eventCreateCmd())
	ev.AddCommand(eventUpdateCmd())
	ev.AddCommand(eventStatusCmd())
	ev.AddCommand(eventForUserCmd())
	ev.AddCommand(eventDeleteCmd())
	return ev
}

func eventListCmd() *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				events, err := c.Events.GetAll(ctx)
				if err != nil {
					return err
				}
				return printEventPage(larp.Paginate(events, page, perPage))
			})
		},
	}
	addPageFlags(cmd, &page, &perPage)
	return cmd
}

func eventGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an event with its scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				event, scenario, err := c.EventWithScenario(ctx, args[0])
				if errors.Is(err, larp.ErrNoScenario) {
					fmt.Println("note: event has no scenario assigned")
					return printJSONOrTable(event)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"event": event, "scenario": scenario})
			})
		},
	}
}

func eventForGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "for-game <game-id>",
		Short: "Get the event owning a game session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				event, err := c.EventByGameID(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(event)
			})
		},
	}
}

func eventCreateCmd() *cobra.Command {
	var name, date, desc, img, scenarioID, file string
	var assign []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			var event domain.Event
			if file != "" {
				if err := readJSONFile(file, &event); err != nil {
					return err
				}
			} else {
				if name == "" || date == "" {
					return fmt.Errorf("--name and --date required (or --file)")
				}
				when, err := time.Parse(time.RFC3339, date)
				if err != nil {
					return fmt.Errorf("invalid --date, expected RFC3339: %w", err)
				}
				roles, err := parseAssignments(assign)
				if err != nil {
					return err
				}
				event = domain.Event{
					Name:          name,
					Date:          when,
					Description:   desc,
					Img:           img,
					ScenarioID:    scenarioID,
					AssignedRoles: roles,
				}
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				created, err := c.Events.Create(ctx, event)
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "event name")
	cmd.Flags().StringVar(&date, "date", "", "event date (RFC3339)")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&img, "img", "", "image URL")
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "scenario id")
	cmd.Flags().StringSliceVar(&assign, "assign", nil, "role assignment scenarioRoleId=email (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "read the event from a JSON file")
	return cmd
}

func eventUpdateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an event from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file required")
			}
			var event domain.Event
			if err := readJSONFile(file, &event); err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				updated, err := c.Events.Update(ctx, args[0], event)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "event JSON file")
	return cmd
}

func eventStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <upcoming|active|historic>",
		Short: "Change an event's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.EventStatus(strings.ToLower(args[1]))
			switch status {
			case domain.EventUpcoming, domain.EventActive, domain.EventHistoric:
			default:
				return fmt.Errorf("invalid status %q", args[1])
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				event, err := c.UpdateEventStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				return printJSONOrTable(event)
			})
		},
	}
}

func eventForUserCmd() *cobra.Command {
	var email, status string
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "for-user",
		Short: "List events assigned to a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email required")
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				events, err := c.EventsForUser(ctx, email, domain.EventStatus(status))
				if err != nil {
					return err
				}
				return printEventPage(larp.Paginate(events, page, perPage))
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "player email")
	cmd.Flags().StringVar(&status, "status", "", "status filter (upcoming, active, historic)")
	addPageFlags(cmd, &page, &perPage)
	return cmd
}

func eventDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				return c.Events.Delete(ctx, args[0])
			})
		},
	}
}

// --- roles ---

func roleCmd() *cobra.Command {
	role := &cobra.Command{Use: "role", Short: "Manage roles"}
	role.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				roles, err := c.Roles.GetAll(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(roles)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Tags"})
				for _, r := range roles {
					values := make([]string, len(r.Tags))
					for i, t := range r.Tags {
						values[i] = t.Value
					}
					tw.AppendRow(table.Row{r.ID, r.Name, strings.Join(values, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	})
	role.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				r, err := c.Roles.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	})
	role.AddCommand(roleCreateCmd())
	role.AddCommand(roleUpdateCmd())
	role.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				return c.Roles.Delete(ctx, args[0])
			})
		},
	})
	return role
}

func roleCreateCmd() *cobra.Command {
	var name, desc string
	var tagIDs []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name required")
			}
			role := domain.Role{Name: name, Description: desc}
			for _, id := range tagIDs {
				role.Tags = append(role.Tags, domain.Tag{ID: id})
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				created, err := c.Roles.Create(ctx, role)
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "role name")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringSliceVar(&tagIDs, "tag", nil, "tag id (repeatable)")
	return cmd
}

func roleUpdateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a role from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file required")
			}
			var role domain.Role
			if err := readJSONFile(file, &role); err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				updated, err := c.Roles.Update(ctx, args[0], role)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "role JSON file")
	return cmd
}

// --- scenarios ---

func scenarioCmd() *cobra.Command {
	sc := &cobra.Command{Use: "scenario", Short: "Manage scenarios"}
	sc.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				scenarios, err := c.Scenarios.GetAll(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(scenarios)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Roles", "Items", "Actions"})
				for _, s := range scenarios {
					tw.AppendRow(table.Row{s.ID, s.Name, len(s.Roles), len(s.Items), len(s.Actions)})
				}
				tw.Render()
				return nil
			})
		},
	})
	sc.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				s, err := c.Scenarios.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	})
	sc.AddCommand(&cobra.Command{
		Use:   "detailed <id>",
		Short: "Get a scenario with nested details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				s, err := c.ScenarioDetailed(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	})
	sc.AddCommand(scenarioWriteCmd("create"))
	sc.AddCommand(scenarioWriteCmd("update"))
	sc.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				return c.Scenarios.Delete(ctx, args[0])
			})
		},
	})
	return sc
}

// scenarioWriteCmd builds create and update; scenarios are nested enough that
// both only take a JSON file.
func scenarioWriteCmd(verb string) *cobra.Command {
	var file string
	use := verb
	short := "Create a scenario from a JSON file"
	nargs := cobra.NoArgs
	if verb == "update" {
		use = "update <id>"
		short = "Update a scenario from a JSON file"
		nargs = cobra.ExactArgs(1)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file required")
			}
			var s domain.Scenario
			if err := readJSONFile(file, &s); err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				var out domain.Scenario
				var err error
				if verb == "create" {
					out, err = c.Scenarios.Create(ctx, s)
				} else {
					out, err = c.Scenarios.Update(ctx, args[0], s)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(out)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "scenario JSON file")
	return cmd
}

// --- tags ---

func tagCmd() *cobra.Command {
	tag := &cobra.Command{Use: "tag", Short: "Manage tags"}
	tag.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				tags, err := c.Tags.GetAll(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tags)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Value", "Unique", "Expires (min)"})
				for _, t := range tags {
					tw.AppendRow(table.Row{t.ID, t.Value, t.IsUnique, t.ExpiresAfterMinutes})
				}
				tw.Render()
				return nil
			})
		},
	})
	tag.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				t, err := c.Tags.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	})
	tag.AddCommand(tagCreateCmd())
	tag.AddCommand(tagImportCmd())
	tag.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				return c.Tags.Delete(ctx, args[0])
			})
		},
	})
	return tag
}

func tagCreateCmd() *cobra.Command {
	var value string
	var unique bool
	var expires int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			if value == "" {
				return fmt.Errorf("--value required")
			}
			t := domain.Tag{Value: value, IsUnique: unique, ExpiresAfterMinutes: expires}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				created, err := c.Tags.Create(ctx, t)
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "tag value")
	cmd.Flags().BoolVar(&unique, "unique", false, "only one holder at a time")
	cmd.Flags().IntVar(&expires, "expires", 0, "minutes before the tag expires")
	return cmd
}

func tagImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-create tags from a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file required")
			}
			var tags []domain.Tag
			if err := readJSONFile(file, &tags); err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				created, err := c.CreateTags(ctx, tags)
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "tags JSON file")
	return cmd
}

// --- game sessions ---

func gameCmd() *cobra.Command {
	game := &cobra.Command{Use: "game", Short: "Manage game sessions"}
	game.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List game sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				games, err := c.Games.GetAll(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(games)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Event", "Status", "Started"})
				for _, g := range games {
					tw.AppendRow(table.Row{g.ID, g.EventID, g.Status, g.StartTime})
				}
				tw.Render()
				return nil
			})
		},
	})
	game.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a game session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				g, err := c.Games.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	})
	game.AddCommand(gameCreateCmd())
	game.AddCommand(gameUpdateCmd())
	game.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				return c.Games.Delete(ctx, args[0])
			})
		},
	})
	return game
}

func gameCreateCmd() *cobra.Command {
	var eventID, file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a game session for an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			var g domain.GameSession
			if file != "" {
				if err := readJSONFile(file, &g); err != nil {
					return err
				}
			} else {
				if eventID == "" {
					return fmt.Errorf("--event required (or --file)")
				}
				g = domain.GameSession{EventID: eventID}
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				created, err := c.Games.Create(ctx, g)
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "event id")
	cmd.Flags().StringVar(&file, "file", "", "game session JSON file")
	return cmd
}

func gameUpdateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a game session from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file required")
			}
			var g domain.GameSession
			if err := readJSONFile(file, &g); err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				updated, err := c.Games.Update(ctx, args[0], g)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "game session JSON file")
	return cmd
}

// --- users ---

func usersCmd() *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Admin user queries"}
	users.AddCommand(&cobra.Command{
		Use:   "emails",
		Short: "List known user emails",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				emails, err := c.UserEmails(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(emails)
			})
		},
	})
	users.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *larp.Client) error {
				u, err := c.User(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(u)
			})
		},
	})
	return users
}

// --- dev token and server ---

func tokenCmd() *cobra.Command {
	var secret, userID, email string
	var admin bool
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a dev bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = devSecret()
			}
			if secret == "" {
				return fmt.Errorf("--secret, dev.jwt_secret or LARPLANER_JWT_SECRET required")
			}
			if userID == "" {
				return fmt.Errorf("--user required")
			}
			token, err := server.SignToken(secret, userID, email, admin, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret")
	cmd.Flags().StringVar(&userID, "user", "", "subject user id")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath, secret string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = "127.0.0.1:8080"
				if cfg != nil && cfg.Dev.Addr != "" {
					addr = cfg.Dev.Addr
				}
			}
			if secret == "" {
				secret = devSecret()
			}
			if secret == "" {
				return fmt.Errorf("a JWT secret is required: set dev.jwt_secret or LARPLANER_JWT_SECRET")
			}
			conn, err := db.Open(workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			handler, err := server.New(server.Config{
				Repo:     repo.Repo{DB: conn},
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: secret},
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving LARPlaner API on http://%s%s\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret")
	return cmd
}

func devSecret() string {
	if s := os.Getenv("LARPLANER_JWT_SECRET"); s != "" {
		return s
	}
	cfg, err := config.LoadOptional(viper.GetString("workspace"))
	if err != nil || cfg == nil {
		return ""
	}
	return cfg.Dev.JWTSecret
}

// --- helpers ---

func withClient(ctx context.Context, fn func(context.Context, *larp.Client) error) error {
	cfg, err := config.LoadOptional(viper.GetString("workspace"))
	if err != nil {
		return err
	}
	serverURL := viper.GetString("server")
	token := viper.GetString("token")
	var stale time.Duration
	if cfg != nil {
		if serverURL == "" {
			serverURL = cfg.Server.URL
		}
		if token == "" {
			token = cfg.Server.Token
		}
		stale = cfg.Cache.StaleTime
	}
	if serverURL == "" {
		serverURL = "http://127.0.0.1:8080"
	}
	apiClient := api.New(serverURL)
	if token != "" {
		// The session checks the token's exp claim; a stale configured token
		// fails fast instead of producing a 401 from the server.
		sess := session.New()
		sess.SignIn(token)
		apiClient.Tokens = sess
	}
	return fn(ctx, larp.New(apiClient, query.NewStore(stale)))
}

func addPageFlags(cmd *cobra.Command, page, perPage *int) {
	cmd.Flags().IntVar(page, "page", 1, "page number")
	cmd.Flags().IntVar(perPage, "page-size", 0, "items per page (0 lists everything)")
}

func printEventPage(p larp.Page[domain.Event]) error {
	if viper.GetBool("json") {
		return printJSON(p.Items)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Name", "Status", "Date", "Scenario", "Game"})
	for _, e := range p.Items {
		tw.AppendRow(table.Row{e.ID, e.Name, e.Status, e.Date.Format(time.RFC3339), e.ScenarioID, e.GameSessionID})
	}
	tw.Render()
	if p.TotalPages > 1 {
		fmt.Printf("page %d/%d (%d events)\n", p.Number, p.TotalPages, p.TotalItems)
	}
	return nil
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func parseAssignments(pairs []string) ([]domain.AssignedRole, error) {
	var out []domain.AssignedRole
	for _, p := range pairs {
		parts := strings.SplitN(p, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid --assign %q, expected scenarioRoleId=email", p)
		}
		out = append(out, domain.AssignedRole{ScenarioRoleID: parts[0], AssignedEmail: parts[1]})
	}
	return out, nil
}
