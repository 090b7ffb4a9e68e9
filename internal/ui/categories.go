package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

// Categories is the category management tab.
type Categories struct {
	categories   *service.CategoryService
	categoryList []models.Category
}

func NewCategories(categories *service.CategoryService) *Categories {
	return &Categories{categories: categories}
}

func (c *Categories) MakeUI() fyne.CanvasObject {
	titleEntry := widget.NewEntry()
	titleEntry.PlaceHolder = "Enter category title..."
	notesEntry := widget.NewEntry()
	notesEntry.PlaceHolder = "Enter category notes..."

	var list *widget.List
	refresh := func() {
		c.categoryList = c.categories.Categories()
		list.Refresh()
	}

	addBtn := widget.NewButtonWithIcon("Add Category", theme.ContentAddIcon(), func() {
		if _, err := c.categories.Add(titleEntry.Text, notesEntry.Text); err != nil {
			dialog.ShowError(err, mainWindow())
			return
		}
		titleEntry.SetText("")
		notesEntry.SetText("")
		refresh()
	})

	list = widget.NewList(
		func() int { return len(c.categoryList) },
		func() fyne.CanvasObject {
			swatch := canvas.NewRectangle(theme.DisabledColor())
			swatch.SetMinSize(fyne.NewSize(12, 12))
			return container.NewBorder(nil, nil, swatch,
				container.NewHBox(
					widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
					widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
				),
				container.NewVBox(
					widget.NewLabelWithStyle("Title", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
					widget.NewLabelWithStyle("Notes", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
				))
		},
		func(i int, o fyne.CanvasObject) {
			if i >= len(c.categoryList) {
				return
			}
			category := c.categoryList[i]
			box := o.(*fyne.Container)
			info := box.Objects[0].(*fyne.Container)
			swatch := box.Objects[1].(*canvas.Rectangle)
			buttons := box.Objects[2].(*fyne.Container)
			title := info.Objects[0].(*widget.Label)
			notes := info.Objects[1].(*widget.Label)
			editBtn := buttons.Objects[0].(*widget.Button)
			delBtn := buttons.Objects[1].(*widget.Button)

			swatch.FillColor = parseHexColor(category.Color)
			swatch.Refresh()
			title.SetText(category.Title)

			sub := category.Notes
			if sub == "" {
				sub = "Created " + category.CreatedAt.Format("02 Jan 2006")
			}
			notes.SetText(sub)

			editBtn.OnTapped = func() {
				c.showEditDialog(category, refresh)
			}
			delBtn.OnTapped = func() {
				dialog.ShowConfirm("Confirm Deletion",
					"Delete this category? Existing sessions keep their data but lose the category label.",
					func(confirmed bool) {
						if !confirmed {
							return
						}
						if err := c.categories.Delete(category.ID); err != nil {
							dialog.ShowError(err, mainWindow())
							return
						}
						refresh()
					}, mainWindow())
			}
		},
	)

	c.categoryList = c.categories.Categories()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(refresh)
		}
	}()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Add New Category", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		titleEntry,
		container.NewBorder(nil, nil, nil, addBtn, notesEntry),
	)

	return container.NewBorder(form, nil, nil, nil, list)
}

func (c *Categories) showEditDialog(category models.Category, onSuccess func()) {
	titleEntry := widget.NewEntry()
	titleEntry.SetText(category.Title)
	notesEntry := widget.NewEntry()
	notesEntry.SetText(category.Notes)

	items := []*widget.FormItem{
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Notes", notesEntry),
	}

	dialog.ShowForm("Edit Category", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := c.categories.Update(category.ID, titleEntry.Text, notesEntry.Text); err != nil {
			dialog.ShowError(err, mainWindow())
			return
		}
		onSuccess()
	}, mainWindow())
}
