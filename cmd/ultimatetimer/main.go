package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/NathanMorier/ultimatetimer/internal/engine"
	"github.com/NathanMorier/ultimatetimer/internal/service"
	"github.com/NathanMorier/ultimatetimer/internal/store"
	"github.com/NathanMorier/ultimatetimer/internal/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
)

var userConfigFilePath string

func setupViper() error {
	viper.SetConfigName("ultimatetimer")
	viper.SetConfigType("yaml")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}

	userConfigFilePath = filepath.Join(configHome, "ultimatetimer", "ultimatetimer.yml")
	viper.SetConfigFile(userConfigFilePath)

	err := os.MkdirAll(filepath.Dir(userConfigFilePath), 0755)
	if err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	viper.SetDefault("data_folder", "./data")
	viper.SetDefault("tick_interval_seconds", 1)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			log.Println("Config file not found; creating one with default values")
			if err := viper.WriteConfigAs(userConfigFilePath); err != nil {
				return fmt.Errorf("error creating config file: %w", err)
			}
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func main() {
	os.Setenv("FYNE_SCALE", "auto")

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	a := app.NewWithID("com.nathanmorier.ultimatetimer")
	a.Settings().SetTheme(theme.DarkTheme())

	w := a.NewWindow("Ultimate Timer")
	w.Resize(fyne.NewSize(520, 680))

	if err := setupViper(); err != nil {
		dialog.ShowError(err, w)
		w.ShowAndRun()
		return
	}

	storage := store.NewStorage(viper.GetString("data_folder"), logger)

	options := engine.Options{
		TickInterval: time.Duration(viper.GetInt("tick_interval_seconds")) * time.Second,
	}

	// The countdown coordinator is the single authoritative instance for
	// countdown state; every surface below receives this same handle.
	timerEngine := engine.NewTimerEngine(storage, logger, options)
	countdownEngine := engine.NewCountdownEngine(storage, logger, options)

	categories := service.NewCategoryService(storage)
	sessions := service.NewSessionService(storage)

	timersView := ui.NewTimers(timerEngine, categories)
	countdownsView := ui.NewCountdowns(countdownEngine, categories)
	categoriesView := ui.NewCategories(categories)
	sessionsView := ui.NewSessions(sessions, categories)
	calendarView := ui.NewCalendar(sessions, categories)
	analyticsView := ui.NewAnalytics(sessions, categories)
	configView := ui.NewConfig(w, storage, userConfigFilePath)

	timerTab := container.NewTabItem("Timers", timersView.MakeUI())
	countdownTab := container.NewTabItem("Countdowns", countdownsView.MakeUI())

	tabs := container.NewAppTabs(
		timerTab,
		countdownTab,
		container.NewTabItem("Categories", categoriesView.MakeUI()),
		container.NewTabItem("Sessions", sessionsView.MakeUI()),
		container.NewTabItem("Calendar", calendarView.MakeUI()),
		container.NewTabItem("Analytics", analyticsView.MakeUI()),
		container.NewTabItem("Config", configView.MakeUI()),
	)

	countdownEngine.SetNotifier(ui.NewDesktopNotifier(a, categories))
	countdownEngine.SetCompletionCallback(countdownsView.ShowCompletionModal)

	timerEngine.Run()
	countdownEngine.Run()

	// Navigation badges: mark the tab when anything is running.
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(func() {
				timerTab.Text = tabTitle("Timers", timerEngine.Count() > 0)
				countdownTab.Text = tabTitle("Countdowns", countdownEngine.Count() > 0)
				tabs.Refresh()
			})
		}
	}()

	w.SetContent(tabs)

	ui.SetupTray(a, w, a.Icon(), timerEngine, countdownEngine)

	w.ShowAndRun()

	countdownsView.Close()
	timerEngine.Close()
	countdownEngine.Close()
}

func tabTitle(name string, active bool) string {
	if active {
		return name + " ●"
	}
	return name
}
