package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nameStyle          = color.New(color.FgWhite, color.Bold)
	addressStyle       = color.New(color.FgWhite)
	hashStyle          = color.New(color.Faint)
	pendingStyle       = color.New(color.FgYellow)
	resolvedStyle      = color.New(color.FgGreen)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	labelStyle         = color.New(color.FgCyan)
)

var titleCaser = cases.Title(language.English)

// StateTitle renders SUBMITTED as "Submitted"
func StateTitle(state models.ContractState) string {
	return titleCaser.String(strings.ToLower(string(state)))
}

// StyledState colors the state title by lifecycle stage
func StyledState(state models.ContractState) string {
	title := StateTitle(state)
	switch state {
	case models.StateResolved:
		return resolvedStyle.Sprint(title)
	case models.StateSubmitted:
		return pendingStyle.Sprint(title)
	default:
		return hashStyle.Sprint(title)
	}
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}
