// Package testutil provides testing utilities for rasa TUI components.
//
// The package includes helpers for:
//   - Building fixtures (sessions, catalogs, findings, history databases)
//   - Simulating user input and key presses
//   - Comparing and asserting view outputs
//
// # Basic Usage
//
//	import "github.com/joshsymonds/rasa/internal/ui/testutil"
//
//	func TestMyPage(t *testing.T) {
//	    sessions := testutil.NewSessionManager(t)
//	    page := NewLogin(sessions)
//
//	    testutil.TypeText(page, "Admin")
//	    model, cmd := testutil.SimulateKeyPress(page, "enter")
//
//	    view := testutil.StripANSI(model.View())
//	    testutil.AssertViewContains(t, view, []string{"Security Access"})
//	}
//
// # Testing Views
//
//	// Strip ANSI codes for comparison
//	cleanView := testutil.StripANSI(view)
//
//	// Compare views with normalization
//	testutil.CompareViews(t, expectedView, actualView)
//
//	// Check ordering of rendered sections
//	testutil.AssertContainsInOrder(t, cleanView, []string{"Evidence", "Device Impacted"})
package testutil
