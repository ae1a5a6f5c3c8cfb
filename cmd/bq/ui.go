package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bizquest/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type scenariosPayload struct {
	Scenarios []game.ScenarioView `json:"scenarios"`
}

type challengesPayload struct {
	Challenges []game.ChallengeView `json:"challenges"`
}

type newsPayload struct {
	News []game.NewsItem `json:"news"`
}

type quartersPayload struct {
	Quarters []game.QuarterRecord `json:"quarters"`
}

type advisorsPayload struct {
	Advisors []game.AdvisorView `json:"advisors"`
}

type abilitiesPayload struct {
	Abilities []game.AbilityView `json:"abilities"`
}

type shopPayload struct {
	Items []game.ShopItemView `json:"items"`
}

type leaderboardPayload struct {
	Rows []game.LeaderboardRow `json:"rows"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]string, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = opt
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if canonical, ok := normalized[text]; ok {
			return canonical, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptNumber(label string) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderDashboard(raw map[string]any) error {
	d, err := decodeInto[game.Dashboard](raw)
	if err != nil {
		return err
	}

	accent.Printf("\n== %s ==\n", strings.ToUpper(d.DisplayName))
	fmt.Printf("Industry:   %s\n", d.Industry)
	fmt.Printf("Career:     %s\n", d.CareerPath)
	if d.JobTitle != "" {
		fmt.Printf("Job:        %s (level %d)\n", d.JobTitle, d.JobLevel)
	}
	fmt.Printf("Cash:       $%s\n", formatCents(d.CashCents))
	fmt.Printf("Reputation: %d\n", d.Reputation)
	fmt.Printf("Energy:     %d\n", d.Energy)
	if d.PrestigeLevel > 0 {
		fmt.Printf("Prestige:   %d\n", d.PrestigeLevel)
	}
	fmt.Printf("Stats:      cha=%d int=%d lck=%d neg=%d unspent=%d\n",
		d.Stats.Charisma, d.Stats.Intelligence, d.Stats.Luck, d.Stats.Negotiation, d.Stats.StatPoints)

	fmt.Println()
	accent.Println("Disciplines")
	fmt.Printf("%-14s %6s %12s %12s\n", "DISCIPLINE", "LEVEL", "TOTAL EXP", "TO NEXT")
	for _, p := range d.Disciplines {
		toNext := strconv.FormatInt(p.EXPToNext, 10)
		if p.NextLevel == p.Level {
			toNext = "max"
		}
		fmt.Printf("%-14s %6d %12d %12s\n", p.Discipline, p.Level, p.TotalEXP, toNext)
	}

	fmt.Println()
	accent.Println("Company")
	fmt.Printf("Capital:  $%s\n", formatCents(d.Company.CapitalCents))
	fmt.Printf("Morale:   %d/100\n", d.Company.Morale)
	fmt.Printf("Brand:    %d/100\n", d.Company.BrandEquity)
	fmt.Printf("Quarter:  Q%d (%d/3 decisions)\n", d.Company.FiscalQuarter, d.Company.Decisions)
	if d.Company.Bankrupt {
		printError("COMPANY BANKRUPT. Game over for this run.")
	} else if d.Company.Demoralized {
		printWarn("Staff demoralized. Hiring and shopping locked until morale recovers.")
	}

	if len(d.Achievements) > 0 {
		fmt.Println()
		accent.Println("Achievements")
		for _, a := range d.Achievements {
			fmt.Printf("  * %s\n", a)
		}
	}
	fmt.Println()
	return nil
}

func renderStats(raw map[string]any) error {
	stats, err := decodeInto[game.StatBlock](raw)
	if err != nil {
		return err
	}
	printSuccess("Stat allocated.")
	fmt.Printf("cha=%d int=%d lck=%d neg=%d unspent=%d\n",
		stats.Charisma, stats.Intelligence, stats.Luck, stats.Negotiation, stats.StatPoints)
	return nil
}

func renderScenarios(raw map[string]any) error {
	payload, err := decodeInto[scenariosPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== SCENARIOS ==")
	if len(payload.Scenarios) == 0 {
		printInfo("No scenarios open at your level.")
		return nil
	}
	for _, s := range payload.Scenarios {
		fmt.Printf("\n#%d [%s, lvl %d+] %s\n", s.ID, s.Discipline, s.RequiredLevel, s.Title)
		printInfo("  " + s.Prompt)
		for _, c := range s.Choices {
			fmt.Printf("  %s) %-40s exp=%d cash=%s\n", c.Letter, truncate(c.Label, 40), c.EXP, signedCents(c.CashCents))
		}
	}
	fmt.Println()
	return nil
}

func renderChallenges(raw map[string]any) error {
	payload, err := decodeInto[challengesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CHALLENGES ==")
	if len(payload.Challenges) == 0 {
		printInfo("No challenges open at your level.")
		return nil
	}
	for _, c := range payload.Challenges {
		fmt.Printf("\n#%d [%s, lvl %d+] %s (%s)\n", c.ID, c.Discipline, c.RequiredLevel, c.Title, c.ChallengeType)
		printInfo("  " + c.Prompt)
	}
	fmt.Println()
	return nil
}

func renderChoiceResult(raw map[string]any) error {
	out, err := decodeInto[game.ChoiceResult](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== SCENARIO #%d: CHOICE %s ==\n", out.ScenarioID, out.Choice)
	fmt.Printf("Stars:   %s", starBar(out.Stars))
	if out.LuckUpgrade {
		success.Print("  (lucky break!)")
	}
	fmt.Println()
	fmt.Printf("EXP:     +%d %s (base %d)\n", out.EXPGained, out.Discipline, out.BaseEXP)
	fmt.Printf("Cash:    %s\n", colorizeCents(out.CashChange))
	if out.RepChange != 0 {
		fmt.Printf("Rep:     %+d\n", out.RepChange)
	}
	printInfo(out.Feedback)
	renderProgressFooter(out.LeveledUp, out.OldLevel, out.NewLevel, out.Promotion, out.Quarter, out.Company, out.GameOver)
	return nil
}

func renderChallengeResult(raw map[string]any) error {
	out, err := decodeInto[game.ChallengeResult](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== CHALLENGE #%d ==\n", out.ChallengeID)
	fmt.Printf("Correct: %.2f\n", out.CorrectAnswer)
	fmt.Printf("Accuracy:%s\n", colorizePercent(out.Accuracy*100))
	fmt.Printf("Stars:   %s\n", starBar(out.Stars))
	fmt.Printf("EXP:     +%d %s (base %d)\n", out.EXPGained, out.Discipline, out.BaseEXP)
	fmt.Printf("Cash:    %s\n", colorizeCents(out.CashChange))
	printInfo(out.Feedback)
	renderProgressFooter(out.LeveledUp, out.OldLevel, out.NewLevel, out.Promotion, out.Quarter, out.Company, out.GameOver)
	return nil
}

func renderProgressFooter(leveled bool, oldLevel, newLevel int, promo *game.Promotion, quarter *game.QuarterAdvance, company game.CompanySnapshot, gameOver bool) {
	if leveled {
		printSuccess(fmt.Sprintf("LEVEL UP! %d -> %d", oldLevel, newLevel))
	}
	if promo != nil {
		printSuccess(fmt.Sprintf("PROMOTED: %s", promo.NewTitle))
	}
	if quarter != nil {
		accent.Printf("Quarter closed. Now in Q%d.\n", quarter.NewQuarter)
		if quarter.Headline != "" {
			printWarn(quarter.Headline)
		}
	}
	fmt.Printf("Company: $%s capital, morale %d, brand %d\n",
		formatCents(company.CapitalCents), company.Morale, company.BrandEquity)
	if gameOver {
		printError("GAME OVER. Brand equity hit zero.")
	}
	fmt.Println()
}

func renderNews(raw map[string]any) error {
	payload, err := decodeInto[newsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== COMPANY NEWS ==")
	if len(payload.News) == 0 {
		printInfo("No news yet.")
		return nil
	}
	for _, n := range payload.News {
		fmt.Printf("%-16s [%-10s] %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Kind, n.Headline)
	}
	fmt.Println()
	return nil
}

func renderQuarters(raw map[string]any) error {
	payload, err := decodeInto[quartersPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== QUARTER HISTORY ==")
	if len(payload.Quarters) == 0 {
		printInfo("No closed quarters yet.")
		return nil
	}
	fmt.Printf("%-8s %14s %8s %8s %-18s\n", "QUARTER", "CAPITAL", "MORALE", "BRAND", "EVENT")
	for _, q := range payload.Quarters {
		event := q.EventCode
		if event == "" {
			event = "-"
		}
		fmt.Printf("Q%-7d %14s %8d %8d %-18s\n", q.Quarter, formatCents(q.CapitalCents), q.Morale, q.BrandEquity, event)
	}
	fmt.Println()
	return nil
}

func renderAdvisors(raw map[string]any) error {
	payload, err := decodeInto[advisorsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== ADVISORS ==")
	fmt.Printf("%-14s %-22s %-12s %12s %8s\n", "CODE", "NAME", "SPECIALTY", "NEXT COST", "LEVEL")
	for _, a := range payload.Advisors {
		specialty := string(a.Specialty)
		if specialty == "" {
			specialty = "all"
		}
		level := fmt.Sprintf("%d/%d", a.Level, a.MaxLevel)
		cost := "$" + formatCents(a.CostCents)
		if a.Level >= a.MaxLevel {
			cost = "max"
		}
		fmt.Printf("%-14s %-22s %-12s %12s %8s\n", a.Code, truncate(a.Name, 22), specialty, cost, level)
	}
	fmt.Println()
	return nil
}

func renderRecruitResult(raw map[string]any) error {
	out, err := decodeInto[game.RecruitAdvisorResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Recruited %s to level %d for $%s. Cash: $%s",
		out.AdvisorCode, out.Level, formatCents(out.CostCents), formatCents(out.CashCents)))
	return nil
}

func renderAbilities(raw map[string]any) error {
	payload, err := decodeInto[abilitiesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== ABILITIES ==")
	fmt.Printf("%-20s %-14s %-10s %-10s %-8s\n", "CODE", "DISCIPLINE", "REQ LVL", "UNLOCKED", "ACTIVE")
	for _, a := range payload.Abilities {
		fmt.Printf("%-20s %-14s %-10d %-10t %-8t\n", a.Code, a.Discipline, a.PrereqLevel, a.Unlocked, a.Active)
	}
	fmt.Println()
	return nil
}

func renderAbilityView(raw map[string]any, msg string) error {
	out, err := decodeInto[game.AbilityView](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("%s: %s", out.Name, msg))
	return nil
}

func renderShop(raw map[string]any) error {
	payload, err := decodeInto[shopPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== SHOP ==")
	fmt.Printf("%-18s %-24s %-10s %12s %6s %-8s\n", "CODE", "NAME", "SLOT", "PRICE", "OWNED", "EQUIPPED")
	for _, item := range payload.Items {
		fmt.Printf("%-18s %-24s %-10s %12s %6d %-8t\n",
			item.Code, truncate(item.Name, 24), item.Slot, "$"+formatCents(item.PriceCents), item.Owned, item.Equipped)
	}
	fmt.Println()
	return nil
}

func renderShopResult(raw map[string]any, action string) error {
	out, err := decodeInto[game.ShopResult](raw)
	if err != nil {
		return err
	}
	verb := "Bought"
	if action == "sell" {
		verb = "Sold"
	}
	printSuccess(fmt.Sprintf("%s %s. Owned: %d. Cash: $%s", verb, out.ItemCode, out.Owned, formatCents(out.CashCents)))
	return nil
}

func renderIdleResult(raw map[string]any) error {
	out, err := decodeInto[game.IdleResult](raw)
	if err != nil {
		return err
	}
	if out.CollectedCents == 0 {
		printInfo("Nothing accrued yet. Come back later.")
		return nil
	}
	printSuccess(fmt.Sprintf("Collected $%s after %s away. Cash: $%s",
		formatCents(out.CollectedCents), formatSeconds(out.ElapsedSeconds), formatCents(out.CashCents)))
	return nil
}

func renderPrestigeResult(raw map[string]any) error {
	out, err := decodeInto[game.PrestigeResult](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== PRESTIGE %d ==\n", out.PrestigeLevel)
	fmt.Printf("EXP multiplier:  x%.2f\n", out.EXPMultiplier)
	fmt.Printf("Gold multiplier: x%.2f\n", out.GoldMultiplier)
	printSuccess("Progression reset. The climb begins again.")
	return nil
}

func renderLeaderboard(raw map[string]any) error {
	payload, err := decodeInto[leaderboardPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== LEADERBOARD ==")
	if len(payload.Rows) == 0 {
		printInfo("No players ranked yet.")
		return nil
	}
	fmt.Printf("%-6s %-18s %-12s %9s %7s %14s\n", "RANK", "PLAYER", "INDUSTRY", "PRESTIGE", "LEVEL", "CASH")
	for _, row := range payload.Rows {
		fmt.Printf("%-6d %-18s %-12s %9d %7d %14s\n",
			row.Rank,
			truncate(row.DisplayName, 18),
			truncate(row.Industry, 12),
			row.PrestigeLevel,
			row.TotalLevel,
			"$"+formatCents(row.CashCents),
		)
	}
	fmt.Println()
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func starBar(stars int) string {
	filled := strings.Repeat("*", stars)
	empty := strings.Repeat(".", 3-stars)
	switch {
	case stars >= 3:
		return success.Sprint(filled)
	case stars == 2:
		return warn.Sprint(filled + empty)
	default:
		return danger.Sprint(filled + empty)
	}
}

func colorizeCents(v int64) string {
	text := signedCents(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%.1f%%", v)
	switch {
	case v >= 95:
		return success.Sprint(text)
	case v >= 70:
		return warn.Sprint(text)
	default:
		return danger.Sprint(text)
	}
}

func formatCents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / game.CentsPerDollar
	frac := v % game.CentsPerDollar
	return fmt.Sprintf("%s%s.%02d", sign, comma(whole), frac)
}

func signedCents(v int64) string {
	if v > 0 {
		return "+$" + formatCents(v)
	}
	if v < 0 {
		return "-$" + formatCents(-v)
	}
	return "$0.00"
}

func formatSeconds(s int64) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	if s < 3600 {
		return fmt.Sprintf("%dm", s/60)
	}
	return fmt.Sprintf("%dh%dm", s/3600, (s%3600)/60)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
