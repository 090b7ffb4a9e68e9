package ui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/viper"

	"github.com/NathanMorier/ultimatetimer/internal/store"
)

// Config is the settings tab: data folder relocation, history erasure and
// quitting.
type Config struct {
	window         fyne.Window
	storage        *store.Storage
	configFilePath string
}

func NewConfig(w fyne.Window, s *store.Storage, configFilePath string) *Config {
	return &Config{window: w, storage: s, configFilePath: configFilePath}
}

func (c *Config) MakeUI() fyne.CanvasObject {
	dataFolder := viper.GetString("data_folder")
	entry := widget.NewEntry()
	entry.SetText(dataFolder)

	browseBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, c.window)
				return
			}
			if uri == nil {
				return
			}
			entry.SetText(uri.Path())
		}, c.window).Show()
	})

	folderContainer := container.NewBorder(nil, nil, nil, browseBtn, entry)

	saveBtn := widget.NewButton("Save Configuration", func() {
		newDataFolder := entry.Text
		if newDataFolder == "" {
			dialog.ShowError(errors.New("data folder cannot be empty"), c.window)
			return
		}

		oldDataFolder := c.storage.BaseDir

		saveConfig := func() {
			viper.Set("data_folder", newDataFolder)
			err := viper.WriteConfigAs(c.configFilePath)
			if err != nil {
				dialog.ShowError(err, c.window)
				return
			}
			dialog.ShowInformation("Success", "Configuration saved.", c.window)
		}

		if newDataFolder != oldDataFolder {
			var d dialog.Dialog

			moveBtn := widget.NewButton("Move existing data", func() {
				d.Hide()
				if err := c.storage.MoveData(newDataFolder); err != nil {
					dialog.ShowError(err, c.window)
					return
				}
				saveConfig()
			})

			freshBtn := widget.NewButton("Start fresh", func() {
				d.Hide()
				c.storage.UpdateBaseDir(newDataFolder)
				saveConfig()
			})

			content := container.NewVBox(
				widget.NewLabel("The data folder changed. Move the existing data or start fresh?"),
				container.NewHBox(moveBtn, freshBtn),
			)

			d = dialog.NewCustom("Data Folder Changed", "Cancel", content, c.window)
			d.Show()
			return
		}

		saveConfig()
	})

	eraseBtn := widget.NewButtonWithIcon("Erase All History", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Erase All History", "Delete every recorded session? This cannot be undone.", func(confirmed bool) {
			if confirmed {
				if err := c.storage.DeleteAllSessions(); err != nil {
					dialog.ShowError(err, c.window)
				} else {
					dialog.ShowInformation("Success", "Session history erased.", c.window)
				}
			}
		}, c.window)
	})
	eraseBtn.Importance = widget.DangerImportance

	quitBtn := widget.NewButtonWithIcon("Quit Application", theme.LogoutIcon(), func() {
		fyne.CurrentApp().Quit()
	})

	return container.NewVBox(
		widget.NewLabel("Configuration"),
		widget.NewForm(
			widget.NewFormItem("Data Folder", folderContainer),
		),
		saveBtn,
		widget.NewSeparator(),
		eraseBtn,
		widget.NewSeparator(),
		quitBtn,
	)
}
