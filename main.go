// Package main provides the entry point for the Colony Counter application.
package main

import (
	"colony-counter/internal/app"
	"colony-counter/internal/logging"
	"colony-counter/internal/version"
	"colony-counter/ui/mainwindow"
	"colony-counter/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "colony-counter"

func main() {
	appPrefs, prefsErr := prefs.Load("")

	logger := logging.NewConsole(appPrefs.LogLevel())
	logger.Info().
		Str("version", version.String()).
		Msgf("Starting %s", mainwindow.AppTitle)
	if prefsErr != nil {
		logger.Warn().Err(prefsErr).Str("path", appPrefs.Path()).Msg("using default preferences")
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(app.NewCounterTheme(appPrefs.MarkColor()))

	appState := app.NewState(appPrefs.ZoomStep(), appPrefs.ZoomFloor(), logging.Component(logger, "state"))
	appState.View.SetMaxPixels(appPrefs.MaxPixels())

	win := mainwindow.New(fyneApp, appState, appPrefs, logging.Component(logger, "ui"))
	win.ShowAndRun()
}
