package windows

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// parFileExtensions are the files the parameter file dialog lists.
var parFileExtensions = []string{".par", ".txt", ".properties"}

func isParFile(name string) bool {
	return slices.Contains(parFileExtensions, strings.ToLower(filepath.Ext(name)))
}

// ParFileDialog browses the file system for a parameter file and hands the
// chosen path to its callback.
type ParFileDialog struct {
	dialog      dialog.Dialog
	window      fyne.Window
	callback    func(path string)
	fileList    *widget.List
	files       []string
	startDir    string
	currentPath string
	pathLabel   *widget.Label
}

// NewParFileDialog creates a dialog starting in the directory of current, or
// the working directory when current is empty.
func NewParFileDialog(w fyne.Window, current string, callback func(path string)) *ParFileDialog {
	start := filepath.Dir(current)
	if current == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		} else {
			start = "."
		}
	}
	return &ParFileDialog{
		window:      w,
		callback:    callback,
		startDir:    start,
		currentPath: start,
	}
}

func (pd *ParFileDialog) Show() {
	pd.pathLabel = widget.NewLabel(pd.currentPath)
	pd.pathLabel.Truncation = fyne.TextTruncateEllipsis
	pd.pathLabel.TextStyle = fyne.TextStyle{Bold: true}

	pd.fileList = widget.NewList(
		func() int {
			return len(pd.files)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.DocumentIcon()), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			cont := obj.(*fyne.Container)
			icon := cont.Objects[0].(*widget.Icon)
			label := cont.Objects[1].(*widget.Label)

			name := pd.files[id]
			label.SetText(name)
			if isParFile(name) {
				icon.SetResource(theme.DocumentIcon())
			} else {
				icon.SetResource(theme.FolderIcon())
			}
		},
	)

	pd.fileList.OnSelected = func(id widget.ListItemID) {
		fullPath := filepath.Join(pd.currentPath, pd.files[id])
		info, err := os.Stat(fullPath)
		if err != nil {
			return
		}
		if info.IsDir() {
			pd.currentPath = fullPath
			pd.loadDirectory()
			pd.fileList.UnselectAll()
			return
		}
		pd.dialog.Hide()
		pd.callback(fullPath)
	}

	homeButton := widget.NewButtonWithIcon("Start", theme.HomeIcon(), func() {
		pd.currentPath = pd.startDir
		pd.loadDirectory()
	})
	upButton := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() {
		if parent := filepath.Dir(pd.currentPath); parent != pd.currentPath {
			pd.currentPath = parent
			pd.loadDirectory()
		}
	})

	filterInfo := widget.NewLabel("Showing: " + strings.Join(parFileExtensions, ", ") + " files and directories")
	filterInfo.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		container.NewVBox(
			container.NewBorder(nil, nil, container.NewHBox(homeButton, upButton), nil, pd.pathLabel),
			widget.NewSeparator(),
			filterInfo,
		),
		nil, nil, nil,
		pd.fileList,
	)

	pd.dialog = dialog.NewCustom("Open Parameter File", "Close", content, pd.window)
	pd.dialog.Resize(fyne.NewSize(700, 500))
	pd.loadDirectory()
	pd.dialog.Show()
}

func (pd *ParFileDialog) loadDirectory() {
	entries, err := os.ReadDir(pd.currentPath)
	if err != nil {
		dialog.ShowError(err, pd.window)
		return
	}

	pd.files = pd.files[:0]
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			pd.files = append(pd.files, entry.Name())
		}
	}
	for _, entry := range entries {
		if !entry.IsDir() && isParFile(entry.Name()) {
			pd.files = append(pd.files, entry.Name())
		}
	}

	pd.pathLabel.SetText(pd.currentPath)
	pd.fileList.Refresh()
}
