// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"context"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// defaultTimeout bounds connection checks when no timeout is configured.
const defaultTimeout = 10 * time.Second

// createTimeoutContext creates a context for a connection check. A timeout
// <= 0 uses defaultTimeout.
func createTimeoutContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// runWithProgress shows an infinite progress dialog titled title, runs work
// on a new goroutine and then, back on the UI goroutine, hides the dialog
// and calls done.
func runWithProgress(w fyne.Window, title string, work func(), done func()) {
	pbi := widget.NewProgressBarInfinite()
	di := dialog.NewCustomWithoutButtons(title, pbi, w)
	di.Resize(fyne.NewSize(300, 100))
	di.Show()
	pbi.Start()

	go func() {
		work()
		fyne.Do(func() {
			pbi.Stop()
			di.Hide()
			if done != nil {
				done()
			}
		})
	}()
}

// cleanFilename keeps letters, digits, '_' and '-', turning spaces into '_'.
func cleanFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
