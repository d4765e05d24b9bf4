package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/app"
	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/metrics"
	"github.com/jislas1039-svg/higher-self/internal/ritual"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if os.Args[1] == "metrics-cleanup" {
		metricsCleanup(cfg, os.Args[2:])
		return
	}

	var camera device.Camera
	if os.Args[1] == "scan" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: higher-self scan <image>")
		}
		camera = &fileCamera{path: os.Args[2]}
	}

	application, err := app.Bootstrap(ctx, cfg, appLogger, app.Devices{
		Camera:   camera,
		OnNotice: printNotice,
	})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	args := os.Args[2:]
	switch os.Args[1] {
	case "onboard":
		if len(args) < 1 {
			log.Fatal("Usage: higher-self onboard <profile.json>")
		}
		onboard(ctx, application, args[0])
	case "status":
		status(application, cfg)
	case "meditate":
		stats := application.LogMeditation(ctx)
		fmt.Printf("Meditation logged. %d minutes today.\n", stats.MeditationMinutes)
	case "workout-done":
		application.CompleteWorkout(ctx)
		fmt.Printf("Workout complete. Progress: %d%%\n", application.Progress())
	case "steps":
		if len(args) < 1 {
			log.Fatal("Usage: higher-self steps <count>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("Invalid step count %q", args[0])
		}
		stats := application.RecordSteps(ctx, n)
		fmt.Printf("Steps: %d. Progress: %d%%\n", stats.Steps, application.Progress())
	case "crave":
		if len(args) < 1 {
			log.Fatal("Usage: higher-self crave <craving or recipe URL>")
		}
		crave(ctx, application, strings.Join(args, " "))
	case "scan":
		scan(ctx, application)
	case "walk":
		minutes := ritual.ProposedWalkMinutes
		if len(args) > 0 {
			if minutes, err = strconv.Atoi(args[0]); err != nil {
				log.Fatalf("Invalid minutes %q", args[0])
			}
		}
		walk(ctx, application, minutes)
	case "journal":
		if len(args) < 1 {
			log.Fatal("Usage: higher-self journal <entry>")
		}
		journal(ctx, application, strings.Join(args, " "))
	case "prefetch":
		day := 0
		if len(args) > 0 {
			if day, err = strconv.Atoi(args[0]); err != nil {
				log.Fatalf("Invalid day %q", args[0])
			}
		}
		n, err := application.PrefetchDay(ctx, day)
		if err != nil {
			log.Fatalf("Prefetch failed: %v", err)
		}
		fmt.Printf("%d exercise graphics available.\n", n)
	case "theme":
		fmt.Printf("Theme is now %s.\n", application.ToggleTheme(ctx))
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func onboard(ctx context.Context, application *app.App, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read profile: %v", err)
	}
	profile := wellness.NewDraftProfile()
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.Fatalf("Failed to parse profile: %v", err)
	}

	wizard := application.NewOnboardingRunner()
	wizard.Edit(func(p *wellness.UserProfile) { *p = profile })
	for !wizard.State().Done {
		step := wizard.State().Step
		if errs := wizard.Next(ctx); len(errs) > 0 {
			for _, fe := range errs {
				fmt.Printf("step %d: %s failed %q\n", step, fe.Field, fe.Rule)
			}
			os.Exit(1)
		}
		if step == ritual.OnboardingSteps && !wizard.State().Done {
			os.Exit(1)
		}
	}

	plan := application.Snapshot().Plan
	fmt.Println(plan.Introduction)
	for _, day := range plan.Schedule {
		fmt.Printf("%-10s %s (%d exercises)\n", day.Day, day.Focus, len(day.Exercises))
	}
}

func status(application *app.App, cfg *config.Config) {
	snap := application.Snapshot()
	if snap.Profile == nil {
		fmt.Println("Not onboarded yet. Run: higher-self onboard <profile.json>")
	} else {
		fmt.Printf("%s (%s), goal %d steps\n", snap.Profile.Name, snap.Profile.Pronouns, snap.Profile.DailyStepGoal)
	}
	fmt.Printf("Progress:   %d%%\n", application.Progress())
	fmt.Printf("Steps:      %d\n", snap.Stats.Steps)
	fmt.Printf("Workout:    %t\n", snap.Stats.WorkoutCompleted)
	fmt.Printf("Journal:    %t (%d entries)\n", snap.Stats.JournalCompleted, len(snap.Journal))
	fmt.Printf("Meditation: %d min\n", snap.Stats.MeditationMinutes)
	fmt.Printf("Theme:      %s\n", snap.Theme)

	health := metrics.GetSysHealth(cfg.StoragePath, cfg.StorageQuotaBytes)
	fmt.Printf("\nStorage:    %s (%.1f%% of quota)\n", health.StorageSize, health.QuotaUsedPct)
	fmt.Printf("Memory:     %d MB alloc, %d MB sys, %d GCs\n", health.AllocMB, health.SysMB, health.NumGC)

	if cfg.MetricsDBPath == "" {
		return
	}
	mStore, err := metrics.NewStore(cfg.MetricsDBPath)
	if err != nil {
		log.Printf("Warning: failed to open metrics store: %v", err)
		return
	}
	defer mStore.Close()
	usage, err := mStore.GetDailyUsage(7)
	if err != nil {
		log.Printf("Warning: failed to read usage: %v", err)
		return
	}
	fmt.Println("\n=== GENERATION USAGE (7 days) ===")
	for _, u := range usage {
		fmt.Printf("%s  calls %4d  prompt %7d  completion %7d  failures %d\n",
			u.Date, u.TotalExecution, u.TotalPrompt, u.TotalCompletion, u.Failures)
	}
}

func crave(ctx context.Context, application *app.App, craving string) {
	alt, err := application.TransformCraving(ctx, craving)
	if err != nil {
		log.Fatalf("No alternative available right now: %v", err)
	}
	fmt.Printf("=== %s ===\n%s\n\n", alt.RecipeName, alt.Philosophy)
	for _, ing := range alt.BasicIngredients {
		fmt.Printf("- %s\n", ing)
	}
	for _, add := range alt.ExtraAddOns {
		fmt.Printf("+ %s\n", add)
	}
	fmt.Printf("\n%s\n", alt.Instructions)
	fmt.Printf("\n%.0f kcal | P %.0fg | C %.0fg | F %.0fg\n",
		alt.Macros.Calories, alt.Macros.Protein, alt.Macros.Carbs, alt.Macros.Fat)
}

func scan(ctx context.Context, application *app.App) {
	runner := application.NewScanRunner()
	defer runner.Close()

	if err := runner.Open(ctx); err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	if runner.State().State != ritual.ScanCameraActive {
		return
	}
	if err := runner.Capture(ctx); err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	s := runner.State()
	if s.Outcome != ritual.OutcomeAnalyzed {
		fmt.Println("Could not analyze this image. Try again.")
		return
	}
	a := s.Analysis
	fmt.Printf("%s [%s]\n%s\n", a.ItemName, a.Rating, a.Verdict)
	fmt.Printf("%s | P %s | C %s | F %s\n", a.Macros.Calories, a.Macros.Protein, a.Macros.Carbs, a.Macros.Fat)
	for _, note := range a.IngredientsAnalysis {
		fmt.Printf("- %s\n", note)
	}
}

func walk(ctx context.Context, application *app.App, minutes int) {
	runner := application.NewWalkRunner()
	defer runner.Close()

	if err := runner.Start(ctx, minutes); err != nil {
		log.Fatalf("Cannot start walk: %v", err)
	}
	fmt.Printf("Walking for %d minutes. Ctrl+C to stop.\n", minutes)

	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = runner.Cancel(context.WithoutCancel(ctx))
			fmt.Println("\nWalk cancelled.")
			return
		case <-t.C:
			if runner.State().State == ritual.WalkIdle {
				fmt.Printf("Steps today: %d\n", application.Snapshot().Stats.Steps)
				return
			}
		}
	}
}

func journal(ctx context.Context, application *app.App, entry string) {
	runner := application.NewJournalRunner()
	if err := runner.Open(); err != nil {
		log.Fatal("No journal prompts yet. Run: higher-self onboard <profile.json>")
	}
	fmt.Printf("Prompt: %s\n", runner.State().CurrentPrompt())
	if err := runner.Submit(ctx, entry); err != nil {
		log.Fatalf("Failed to save entry: %v", err)
	}
	fmt.Println("Entry saved.")
}

func metricsCleanup(cfg *config.Config, args []string) {
	cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
	cleanupCmd.Parse(args)

	mStore, err := metrics.NewStore(cfg.MetricsDBPath)
	if err != nil {
		log.Fatalf("Failed to open metrics store: %v", err)
	}
	defer mStore.Close()

	affected, err := mStore.Cleanup(*days)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func printNotice(n ritual.Notice) {
	switch n {
	case ritual.NoticeWalkComplete:
		fmt.Println("Walk complete. Well done.")
	case ritual.NoticeSedentary:
		fmt.Println("You've been still for a while. Time for a walk?")
	case ritual.NoticeCameraDenied:
		fmt.Println("Camera unavailable. Check the image path or permissions.")
	case ritual.NoticePlanFailed:
		fmt.Println("Could not generate your plan. Try again.")
	case ritual.NoticeCalibrationOff:
		fmt.Println("Calibration unavailable; keeping your current prompts.")
	}
}

func printUsage() {
	fmt.Println("Usage: higher-self <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  onboard <profile.json>   Generate the plan and create the profile")
	fmt.Println("  status                   Show today's progress and storage health")
	fmt.Println("  meditate                 Log a 10 minute meditation")
	fmt.Println("  workout-done             Mark today's workout complete")
	fmt.Println("  steps <count>            Record a pedometer reading")
	fmt.Println("  crave <text|url>         Get a healthier version of a craving")
	fmt.Println("  scan <image>             Analyze a food photo")
	fmt.Println("  walk [minutes]           Start a walk (default 15)")
	fmt.Println("  journal <entry>          Answer the current journal prompt")
	fmt.Println("  prefetch [day]           Generate the exercise graphics of a day")
	fmt.Println("  theme                    Toggle light/dark")
	fmt.Println("  metrics-cleanup          Remove old metric records")
}
