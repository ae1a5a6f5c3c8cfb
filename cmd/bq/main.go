package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "bizquest/internal/cli"
	"bizquest/internal/config"
	"bizquest/internal/game"
	"bizquest/internal/syncq"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "bq",
		Short:        "BizQuest CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newStartCmd(&apiBase),
		newLogoutCmd(),
		newDashCmd(&apiBase),
		newStatsCmd(&apiBase),
		newScenariosCmd(&apiBase),
		newChallengesCmd(&apiBase),
		newCompanyCmd(&apiBase),
		newAdvisorsCmd(&apiBase),
		newAbilitiesCmd(&apiBase),
		newShopCmd(&apiBase),
		newIdleCmd(&apiBase),
		newPrestigeCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newSyncCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newStartCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Create a new BizQuest player",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := promptRequired("Display name")
			if err != nil {
				return err
			}
			industry, err := promptChoice("Industry", game.Industries, "Restaurant")
			if err != nil {
				return err
			}
			career, err := promptChoice("Career path", []string{"entrepreneur", "employee"}, "entrepreneur")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CreatePlayer(ctx, name, "", industry, career, uuid.NewString())
			if err != nil {
				return err
			}
			created, err := decodeInto[game.CreatePlayerResult](out)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				APIToken:    created.APIToken,
				PlayerID:    created.PlayerID,
				DisplayName: name,
			}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Welcome to BizQuest, %s. Session saved.", name))
			if created.JobTitle != "" {
				printInfo("Starting job: " + created.JobTitle)
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newDashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Show your dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Dashboard(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderDashboard(out)
		},
	}
}

func newStatsCmd(apiBase *string) *cobra.Command {
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Character stat commands",
	}
	stats.AddCommand(&cobra.Command{
		Use:   "allocate [stat]",
		Short: "Spend a stat point on charisma, intelligence, luck or negotiation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			var stat string
			if len(args) > 0 {
				stat = strings.ToLower(strings.TrimSpace(args[0]))
			} else {
				stat, err = promptChoice("Stat", []string{"charisma", "intelligence", "luck", "negotiation"}, "intelligence")
				if err != nil {
					return err
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.AllocateStat(ctx, sess.APIToken, stat)
			if err != nil {
				return err
			}
			return renderStats(out)
		},
	})
	return stats
}

func newScenariosCmd(apiBase *string) *cobra.Command {
	scenarios := &cobra.Command{
		Use:     "scenarios",
		Short:   "Decision scenario commands",
		Aliases: []string{"scenario"},
	}
	scenarios.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scenarios open to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ListScenarios(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderScenarios(out)
		},
	})
	scenarios.AddCommand(&cobra.Command{
		Use:   "choose [scenario_id] [letter]",
		Short: "Commit to a scenario choice",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			id, err := int64FromArgOrPrompt(args, 0, "Scenario ID")
			if err != nil {
				return err
			}
			var letter string
			if len(args) >= 2 {
				letter = strings.ToUpper(strings.TrimSpace(args[1]))
			} else {
				letter, err = promptChoice("Choice", []string{"A", "B", "C", "D"}, "A")
				if err != nil {
					return err
				}
				letter = strings.ToUpper(letter)
			}

			idem := uuid.NewString()
			body := map[string]any{"choice": letter}
			path := fmt.Sprintf("/v1/scenarios/%d/choose", id)
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.ChooseScenario(ctx, sess.APIToken, id, letter, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           path,
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderChoiceResult(out)
		},
	})
	return scenarios
}

func newChallengesCmd(apiBase *string) *cobra.Command {
	challenges := &cobra.Command{
		Use:     "challenges",
		Short:   "Numeric challenge commands",
		Aliases: []string{"challenge"},
	}
	challenges.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List challenges open to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ListChallenges(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderChallenges(out)
		},
	})
	challenges.AddCommand(&cobra.Command{
		Use:   "answer [challenge_id] [answer]",
		Short: "Submit a numeric answer",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			id, err := int64FromArgOrPrompt(args, 0, "Challenge ID")
			if err != nil {
				return err
			}
			var answer float64
			if len(args) >= 2 {
				answer, err = strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
				if err != nil {
					return fmt.Errorf("invalid answer")
				}
			} else {
				answer, err = promptNumber("Answer")
				if err != nil {
					return err
				}
			}

			idem := uuid.NewString()
			body := map[string]any{"answer": answer}
			path := fmt.Sprintf("/v1/challenges/%d/answer", id)
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.AnswerChallenge(ctx, sess.APIToken, id, answer, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           path,
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderChallengeResult(out)
		},
	})
	return challenges
}

func newCompanyCmd(apiBase *string) *cobra.Command {
	company := &cobra.Command{
		Use:   "company",
		Short: "Company ledger commands",
	}
	company.AddCommand(&cobra.Command{
		Use:   "news",
		Short: "Show the company news ticker",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CompanyNews(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderNews(out)
		},
	})
	company.AddCommand(&cobra.Command{
		Use:   "quarters",
		Short: "Show closed fiscal quarters",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.QuarterHistory(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderQuarters(out)
		},
	})
	return company
}

func newAdvisorsCmd(apiBase *string) *cobra.Command {
	advisors := &cobra.Command{
		Use:     "advisors",
		Short:   "Advisor commands",
		Aliases: []string{"advisor"},
	}
	advisors.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List advisors and recruitment state",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ListAdvisors(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderAdvisors(out)
		},
	})
	advisors.AddCommand(&cobra.Command{
		Use:   "recruit [code]",
		Short: "Recruit or level up an advisor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			code, err := codeFromArgsOrPrompt(args, "Advisor code")
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			path := "/v1/advisors/" + code + "/recruit"
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.RecruitAdvisor(ctx, sess.APIToken, code, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           path,
					Body:           map[string]any{},
					IdempotencyKey: idem,
				})
			}
			return renderRecruitResult(out)
		},
	})
	return advisors
}

func newAbilitiesCmd(apiBase *string) *cobra.Command {
	abilities := &cobra.Command{
		Use:     "abilities",
		Short:   "Ability tree commands",
		Aliases: []string{"ability"},
	}
	abilities.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List abilities and unlock state",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ListAbilities(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderAbilities(out)
		},
	})
	abilities.AddCommand(&cobra.Command{
		Use:   "unlock [code]",
		Short: "Unlock an ability you qualify for",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			code, err := codeFromArgsOrPrompt(args, "Ability code")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.UnlockAbility(ctx, sess.APIToken, code)
			if err != nil {
				return err
			}
			return renderAbilityView(out, "Unlocked.")
		},
	})
	abilities.AddCommand(&cobra.Command{
		Use:   "activate [code]",
		Short: "Activate an unlocked ability for this quarter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			code, err := codeFromArgsOrPrompt(args, "Ability code")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.ActivateAbility(ctx, sess.APIToken, code)
			if err != nil {
				return err
			}
			return renderAbilityView(out, "Activated for this quarter.")
		},
	})
	return abilities
}

func newShopCmd(apiBase *string) *cobra.Command {
	shop := &cobra.Command{
		Use:   "shop",
		Short: "Item shop commands",
	}
	shop.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List shop items and your inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ListShop(ctx, sess.APIToken)
			if err != nil {
				return err
			}
			return renderShop(out)
		},
	})
	shop.AddCommand(&cobra.Command{
		Use:   "buy [code]",
		Short: "Buy an item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shopWriteCommand(cmd, apiBase, args, "buy")
		},
	})
	shop.AddCommand(&cobra.Command{
		Use:   "sell [code]",
		Short: "Sell an item back at half price",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shopWriteCommand(cmd, apiBase, args, "sell")
		},
	})
	shop.AddCommand(&cobra.Command{
		Use:   "equip [code]",
		Short: "Equip an owned item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			code, err := codeFromArgsOrPrompt(args, "Item code")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if _, err := client.EquipItem(ctx, sess.APIToken, code); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Equipped %s.", code))
			return nil
		},
	})
	return shop
}

func shopWriteCommand(cmd *cobra.Command, apiBase *string, args []string, action string) error {
	sess, err := cl.LoadSession()
	if err != nil {
		return fmt.Errorf("run `bq start` first: %w", err)
	}
	code, err := codeFromArgsOrPrompt(args, "Item code")
	if err != nil {
		return err
	}
	idem := uuid.NewString()
	path := "/v1/shop/" + code + "/" + action
	client := newClient(apiBase)
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var out map[string]any
	if action == "buy" {
		out, err = client.BuyItem(ctx, sess.APIToken, code, idem)
	} else {
		out, err = client.SellItem(ctx, sess.APIToken, code, idem)
	}
	if err != nil {
		return queueOnNetworkError(err, syncq.Command{
			Method:         "POST",
			Path:           path,
			Body:           map[string]any{},
			IdempotencyKey: idem,
		})
	}
	return renderShopResult(out, action)
}

func newIdleCmd(apiBase *string) *cobra.Command {
	idle := &cobra.Command{
		Use:   "idle",
		Short: "Idle income commands",
	}
	idle.AddCommand(&cobra.Command{
		Use:   "collect",
		Short: "Collect accrued idle income",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			idem := uuid.NewString()
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.CollectIdle(ctx, sess.APIToken, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/idle/collect",
					Body:           map[string]any{},
					IdempotencyKey: idem,
				})
			}
			return renderIdleResult(out)
		},
	})
	return idle
}

func newPrestigeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prestige",
		Short: "Reset progression for permanent multipliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			confirm, err := promptChoice("Prestige resets all levels. Continue", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Prestige cancelled.")
				return nil
			}
			idem := uuid.NewString()
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Prestige(ctx, sess.APIToken, idem)
			if err != nil {
				return err
			}
			return renderPrestigeResult(out)
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the global leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Leaderboard(ctx, 25)
			if err != nil {
				return err
			}
			return renderLeaderboard(out)
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay locally queued offline writes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("run `bq start` first: %w", err)
			}
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			remaining := make([]syncq.Command, 0, len(queue))
			success := 0
			for _, q := range queue {
				_, err := client.Do(ctx, q.Method, q.Path, sess.APIToken, q.Body, q.IdempotencyKey)
				if err != nil {
					remaining = append(remaining, q)
					printError(fmt.Sprintf("Sync failed for %s %s: %v", q.Method, q.Path, err))
					continue
				}
				success++
			}
			if err := syncq.Save(remaining); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sync complete: replayed=%d remaining=%d", success, len(remaining)))
			return nil
		},
	}
}

// queueOnNetworkError records the write locally when the API is unreachable.
// Structured API errors mean the server saw the request, so those surface
// directly instead of being queued.
func queueOnNetworkError(err error, cmd syncq.Command) error {
	if err == nil {
		return nil
	}
	if isAPIStructuredError(err) {
		return err
	}
	if qErr := syncq.Push(cmd); qErr != nil {
		return fmt.Errorf("request failed and queueing failed: %v (queue: %v)", err, qErr)
	}
	printWarn(fmt.Sprintf("Offline. Queued %s %s for `bq sync`.", cmd.Method, cmd.Path))
	return nil
}

func isAPIStructuredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "api status")
}

func codeFromArgsOrPrompt(args []string, label string) (string, error) {
	if len(args) > 0 {
		return strings.ToLower(strings.TrimSpace(args[0])), nil
	}
	code, err := promptRequired(label)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(code)), nil
}

func int64FromArgOrPrompt(args []string, idx int, label string) (int64, error) {
	if len(args) > idx {
		v, err := strconv.ParseInt(strings.TrimSpace(args[idx]), 10, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptInt64(label, 1)
}
